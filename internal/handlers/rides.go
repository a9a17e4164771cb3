package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"covoiturage-backend/internal/middleware"
	"covoiturage-backend/internal/models"
	"covoiturage-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateRideRequest struct {
	Departure     string  `json:"departure"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"` // RFC 3339
	Price         float64 `json:"price"`
	Seats         int     `json:"seats"`
}

// validateCreateRide returns a user-facing message for the first failed
// check, or "" when the request is acceptable.
func validateCreateRide(req CreateRideRequest) string {
	if req.Departure == "" || req.Destination == "" || req.DepartureTime == "" {
		return "Departure, destination and departure_time are required"
	}
	if _, err := time.Parse(time.RFC3339, req.DepartureTime); err != nil {
		return "departure_time must be RFC 3339, e.g. 2026-09-01T09:00:00Z"
	}
	if req.Price <= 0 {
		return "Price must be positive"
	}
	if req.Seats < 1 {
		return "Seats must be at least 1"
	}
	return ""
}

// CreateRide posts a new ride owned by the authenticated driver.
// seats_available starts equal to the posted seat count.
func CreateRide(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateRideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if msg := validateCreateRide(req); msg != "" {
			log.Printf("❌ Invalid ride: %s", msg)
			utils.RespondError(w, http.StatusBadRequest, msg)
			return
		}
		departs, _ := time.Parse(time.RFC3339, req.DepartureTime)

		now := time.Now().Unix()
		ride := models.Ride{
			ID:             uuid.New().String(),
			DriverID:       claims.UserID,
			Departure:      req.Departure,
			Destination:    req.Destination,
			DepartureTime:  departs.Unix(),
			Price:          req.Price,
			TotalSeats:     req.Seats,
			SeatsAvailable: req.Seats,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		query := `
			INSERT INTO rides (id, driver_id, departure, destination, departure_time,
				price, total_seats, seats_available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := db.Exec(query, ride.ID, ride.DriverID, ride.Departure, ride.Destination,
			ride.DepartureTime, ride.Price, ride.TotalSeats, ride.SeatsAvailable,
			ride.CreatedAt, ride.UpdatedAt)
		if err != nil {
			log.Printf("❌ Failed to insert ride: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create ride")
			return
		}

		log.Printf("✅ RIDE CREATED: %s → %s (%d seats) by %s",
			ride.Departure, ride.Destination, ride.TotalSeats, claims.UserID)
		utils.RespondJSON(w, http.StatusCreated, ride.ToRideResponse())
	}
}

// GetRides returns every ride, soonest departure first.
func GetRides(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rides []models.Ride
		if err := db.Select(&rides, "SELECT * FROM rides ORDER BY departure_time ASC"); err != nil {
			log.Printf("❌ Failed to fetch rides: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch rides")
			return
		}

		responses := make([]models.RideResponse, 0, len(rides))
		for i := range rides {
			responses = append(responses, rides[i].ToRideResponse())
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// searchDayWindow converts a YYYY-MM-DD date into the [start, end) Unix
// range covering that whole calendar day in UTC.
func searchDayWindow(date string) (int64, int64, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, err
	}
	return day.Unix(), day.AddDate(0, 0, 1).Unix(), nil
}

// SearchRides filters rides by destination substring and departure day.
// Zero matches is a normal outcome and returns an empty list, not an error.
func SearchRides(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destination := r.URL.Query().Get("destination")
		date := r.URL.Query().Get("date")
		if destination == "" || date == "" {
			utils.RespondError(w, http.StatusBadRequest, "destination and date query parameters are required")
			return
		}

		dayStart, dayEnd, err := searchDayWindow(date)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
			return
		}

		query := `
			SELECT * FROM rides
			WHERE destination ILIKE '%' || $1 || '%'
			  AND departure_time >= $2
			  AND departure_time < $3
			ORDER BY departure_time ASC
		`
		var rides []models.Ride
		if err := db.Select(&rides, query, destination, dayStart, dayEnd); err != nil {
			log.Printf("❌ Ride search failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to search rides")
			return
		}

		log.Printf("🔎 Ride search: destination=%q date=%s → %d result(s)", destination, date, len(rides))

		responses := make([]models.RideResponse, 0, len(rides))
		for i := range rides {
			responses = append(responses, rides[i].ToRideResponse())
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}
