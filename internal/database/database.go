package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Login users. Seeded externally; this service never mutates them.
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Store directory. Static reference data, read-only.
		`CREATE TABLE IF NOT EXISTS stores (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			latitude TEXT NOT NULL,
			longitude TEXT NOT NULL
		)`,

		// Duty sessions. status FALSE = open, TRUE = stopped. Stop fields
		// stay empty strings until the stop transition. Dates, times and
		// coordinates are deliberately TEXT: the history sort is defined
		// over lexicographic string order.
		`CREATE TABLE IF NOT EXISTS duties (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			store_name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			start_latitude TEXT NOT NULL,
			start_longitude TEXT NOT NULL,
			status BOOLEAN NOT NULL DEFAULT FALSE,
			stop_date TEXT NOT NULL DEFAULT '',
			stop_time TEXT NOT NULL DEFAULT '',
			stop_latitude TEXT NOT NULL DEFAULT '',
			stop_longitude TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_duties_username_status ON duties (username, status)`,

		// Append-only GPS trail. A location update is one INSERT here, so
		// concurrent appends never overwrite each other.
		`CREATE TABLE IF NOT EXISTS location_updates (
			id SERIAL PRIMARY KEY,
			duty_id TEXT NOT NULL,
			latitude TEXT NOT NULL,
			longitude TEXT NOT NULL,
			captured_at BIGINT NOT NULL,
			FOREIGN KEY (duty_id) REFERENCES duties(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_location_updates_duty ON location_updates (duty_id)`,

		// FCM device registrations for duty start/stop push notifications.
		`CREATE TABLE IF NOT EXISTS device_tokens (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			platform TEXT NOT NULL CHECK(platform IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Ran %d migrations", len(migrations))
	return nil
}
