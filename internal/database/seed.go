package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SeedUsers loads the default field-staff accounts. Passwords are stored
// as-is: login is defined as an exact username/password match and hashing is
// out of scope for this system.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	users := []map[string]interface{}{
		{"id": uuid.New().String(), "username": "arjun", "password": "arjun123"},
		{"id": uuid.New().String(), "username": "priya", "password": "priya123"},
		{"id": uuid.New().String(), "username": "demo", "password": "demo123"},
	}

	for _, user := range users {
		query := `INSERT INTO users (id, username, password) VALUES (:id, :username, :password)`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s", user["username"])
	}

	log.Println("✓ Successfully seeded test users")
	return nil
}

// SeedStores loads the store directory used by the geocoded search endpoint.
func SeedStores(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM stores"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Stores already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding store directory...")

	stores := []map[string]interface{}{
		{"name": "Big Bazaar Koramangala", "latitude": "12.9352", "longitude": "77.6245"},
		{"name": "Big Bazaar Indiranagar", "latitude": "12.9784", "longitude": "77.6408"},
		{"name": "Reliance Fresh Jayanagar", "latitude": "12.9250", "longitude": "77.5938"},
		{"name": "Reliance Fresh Whitefield", "latitude": "12.9698", "longitude": "77.7500"},
		{"name": "DMart Marathahalli", "latitude": "12.9591", "longitude": "77.6974"},
		{"name": "DMart Electronic City", "latitude": "12.8452", "longitude": "77.6602"},
		{"name": "More Megastore BTM Layout", "latitude": "12.9166", "longitude": "77.6101"},
		{"name": "Spencer's HSR Layout", "latitude": "12.9116", "longitude": "77.6389"},
		{"name": "Star Bazaar Hebbal", "latitude": "13.0358", "longitude": "77.5970"},
		{"name": "Nilgiris Malleshwaram", "latitude": "13.0031", "longitude": "77.5643"},
	}

	for _, store := range stores {
		query := `INSERT INTO stores (name, latitude, longitude) VALUES (:name, :latitude, :longitude)`
		if _, err := db.NamedExec(query, store); err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d stores", len(stores))
	return nil
}
