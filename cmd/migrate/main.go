package main

import (
	"log"
	"os"

	"dutytrack-backend/internal/database"

	"github.com/joho/godotenv"
)

// Standalone migration/seed runner for deployments where the server is not
// allowed to alter the schema on boot.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedStores(db); err != nil {
		log.Fatalf("Store seeding failed: %v", err)
	}

	log.Println("Migration completed successfully!")
}
