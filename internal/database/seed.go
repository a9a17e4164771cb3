package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers inserts demo accounts on an empty users table.
// Passwords come from the seed list below; change them before exposing
// a real deployment.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo users...")

	users := []struct {
		Email    string
		Password string
		Name     string
	}{
		{"alice@example.com", "alice1234", "Alice Martin"},
		{"bruno@example.com", "bruno1234", "Bruno Lefevre"},
		{"chloe@example.com", "chloe1234", "Chloé Dubois"},
	}

	now := time.Now().Unix()
	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), u.Email, string(hashed), u.Name, now, now)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d users", len(users))
	return nil
}

// SeedRides inserts a handful of upcoming demo rides on an empty rides table.
// Each ride is owned by the first seeded user.
func SeedRides(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM rides"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Rides already seeded, skipping...")
		return nil
	}

	var driverID string
	if err := db.Get(&driverID, "SELECT id FROM users ORDER BY created_at LIMIT 1"); err != nil {
		log.Println("⚠️  No users to own seed rides, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo rides...")

	rides := []struct {
		Departure   string
		Destination string
		InDays      int
		Price       float64
		Seats       int
	}{
		{"Paris", "Lyon", 2, 25.0, 3},
		{"Paris", "Lille", 3, 18.5, 4},
		{"Lyon", "Marseille", 5, 22.0, 2},
		{"Bordeaux", "Toulouse", 7, 15.0, 3},
	}

	now := time.Now()
	for _, r := range rides {
		departs := now.AddDate(0, 0, r.InDays).Truncate(time.Hour).Add(9 * time.Hour)
		_, err := db.Exec(`
			INSERT INTO rides (id, driver_id, departure, destination, departure_time,
				price, total_seats, seats_available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.New().String(), driverID, r.Departure, r.Destination, departs.Unix(),
			r.Price, r.Seats, r.Seats, now.Unix(), now.Unix())
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d rides", len(rides))
	return nil
}
