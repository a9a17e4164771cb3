package main

import (
	"fmt"
	"log"
	"os"

	"covoiturage-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Execute the migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	// Query and display summary
	var result struct {
		Users        int `db:"users"`
		Rides        int `db:"rides"`
		Reservations int `db:"reservations"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM rides) AS rides,
			(SELECT COUNT(*) FROM reservations) AS reservations
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	// Display results
	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:        %d\n", result.Users)
	fmt.Printf("Rides:        %d\n", result.Rides)
	fmt.Printf("Reservations: %d\n", result.Reservations)
	fmt.Println("============================================================")
}
