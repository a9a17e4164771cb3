package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"covoiturage-backend/internal/middleware"
	"covoiturage-backend/internal/models"
	"covoiturage-backend/internal/services"
	"covoiturage-backend/internal/websocket"
	"covoiturage-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// refundWindow is how long before departure a cancellation must happen to
// qualify for a refund. The boundary is strict: exactly refundWindow before
// departure is NOT eligible.
const refundWindow = 24 * time.Hour

// refundEligible reports whether a cancellation at `now` for a ride leaving
// at `departure` gets its money back.
func refundEligible(departure, now time.Time) bool {
	return departure.Sub(now) > refundWindow
}

type CreateReservationRequest struct {
	RideID string `json:"ride_id"`
	Seats  int    `json:"seats"`
}

type CancelReservationResponse struct {
	Status         string `json:"status"`
	RefundEligible bool   `json:"refund_eligible"`
	Message        string `json:"message"`
}

// CreateReservation books seats on a ride for the authenticated user.
//
// The seat decrement is a conditional UPDATE inside a transaction: the row
// only changes when enough seats remain, so two concurrent requests for the
// last seat cannot both succeed. Rides are never oversold.
func CreateReservation(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.RideID == "" {
			utils.RespondError(w, http.StatusBadRequest, "ride_id is required")
			return
		}
		if req.Seats < 1 {
			utils.RespondError(w, http.StatusBadRequest, "Seats must be at least 1")
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to begin transaction")
			return
		}
		defer tx.Rollback()

		// Decrement only if enough seats remain
		result, err := tx.Exec(`
			UPDATE rides
			SET seats_available = seats_available - $1,
			    updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
			WHERE id = $2 AND seats_available >= $1
		`, req.Seats, req.RideID)
		if err != nil {
			log.Printf("❌ Seat decrement failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create reservation")
			return
		}

		rows, err := result.RowsAffected()
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create reservation")
			return
		}

		if rows == 0 {
			// Either the ride does not exist or it lacks the seats
			var exists bool
			if err := tx.Get(&exists, "SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1)", req.RideID); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to create reservation")
				return
			}
			if !exists {
				log.Printf("❌ Ride not found: %s", req.RideID)
				utils.RespondError(w, http.StatusNotFound, "Ride not found")
				return
			}
			log.Printf("❌ Not enough seats on ride %s (requested %d)", req.RideID, req.Seats)
			utils.RespondError(w, http.StatusBadRequest, "Not enough seats available")
			return
		}

		reservation := models.Reservation{
			ID:        uuid.New().String(),
			UserID:    claims.UserID,
			RideID:    req.RideID,
			Seats:     req.Seats,
			CreatedAt: time.Now().Unix(),
		}

		_, err = tx.Exec(`
			INSERT INTO reservations (id, user_id, ride_id, seats, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, reservation.ID, reservation.UserID, reservation.RideID, reservation.Seats, reservation.CreatedAt)
		if err != nil {
			log.Printf("❌ Reservation insert failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create reservation")
			return
		}

		var ride models.Ride
		if err := tx.Get(&ride, "SELECT * FROM rides WHERE id = $1", req.RideID); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create reservation")
			return
		}

		if err := tx.Commit(); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to commit transaction")
			return
		}

		log.Printf("✅ RESERVATION CREATED: %d seat(s) on ride %s for user %s (%d left)",
			reservation.Seats, ride.ID, claims.UserID, ride.SeatsAvailable)

		hub.BroadcastSeatUpdate(ride.ID, ride.SeatsAvailable)
		notifyDriver(db, fcm, ride, reservation.Seats, true)

		utils.RespondJSON(w, http.StatusCreated, reservation)
	}
}

// CancelReservation releases the reserved seats and reports whether the
// cancellation qualifies for a refund (strictly more than 24h before
// departure). The cancellation itself always goes through.
//
// The reservation row is locked with FOR UPDATE so two concurrent cancels
// of the same id serialize: the loser re-reads after the winner's commit,
// finds the row gone and gets a 404 instead of releasing the seats twice.
func CancelReservation(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Reservation id is required")
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to begin transaction")
			return
		}
		defer tx.Rollback()

		var reservation models.Reservation
		if err := tx.Get(&reservation, "SELECT * FROM reservations WHERE id = $1 FOR UPDATE", id); err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Reservation not found")
				return
			}
			utils.RespondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
			return
		}

		// Only the reserving user may cancel. A mismatch reads as 404 so the
		// endpoint does not confirm that someone else's reservation id exists.
		if reservation.UserID != claims.UserID {
			log.Printf("❌ User %s tried to cancel reservation %s owned by %s", claims.UserID, id, reservation.UserID)
			utils.RespondError(w, http.StatusNotFound, "Reservation not found")
			return
		}

		// Release the seats back to the ride
		var ride models.Ride
		err = tx.Get(&ride, `
			UPDATE rides
			SET seats_available = seats_available + $1,
			    updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
			WHERE id = $2
			RETURNING *
		`, reservation.Seats, reservation.RideID)
		if err != nil {
			log.Printf("❌ Seat release failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
			return
		}

		result, err := tx.Exec("DELETE FROM reservations WHERE id = $1", id)
		if err != nil {
			log.Printf("❌ Reservation delete failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
			return
		}
		// A vanished row here means another cancel won despite the lock;
		// roll back rather than commit a second seat release.
		if rows, err := result.RowsAffected(); err != nil || rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Reservation not found")
			return
		}

		if err := tx.Commit(); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to commit transaction")
			return
		}

		eligible := refundEligible(time.Unix(ride.DepartureTime, 0), time.Now())
		message := "Reservation cancelled without refund (less than 24h before departure)"
		if eligible {
			message = "Reservation cancelled and refunded (more than 24h before departure)"
		}

		log.Printf("✅ RESERVATION CANCELLED: %s on ride %s (refund: %v, %d seats left)",
			id, ride.ID, eligible, ride.SeatsAvailable)

		hub.BroadcastSeatUpdate(ride.ID, ride.SeatsAvailable)
		notifyDriver(db, fcm, ride, reservation.Seats, false)

		utils.RespondJSON(w, http.StatusOK, CancelReservationResponse{
			Status:         "cancelled",
			RefundEligible: eligible,
			Message:        message,
		})
	}
}

// notifyDriver pushes an FCM notification to the ride's driver. Best
// effort: failures are logged, never surfaced to the rider.
func notifyDriver(db *sqlx.DB, fcm *services.FCMService, ride models.Ride, seats int, reserved bool) {
	if fcm == nil {
		return
	}

	var tokens []string
	if err := db.Select(&tokens, "SELECT token FROM fcm_tokens WHERE user_id = $1", ride.DriverID); err != nil {
		log.Printf("⚠️ Failed to load driver FCM tokens: %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	var err error
	if reserved {
		err = fcm.SendSeatsReservedNotification(tokens, ride.ID, ride.Destination, seats, ride.SeatsAvailable)
	} else {
		err = fcm.SendReservationCancelledNotification(tokens, ride.ID, ride.Destination, seats, ride.SeatsAvailable)
	}
	if err != nil {
		log.Printf("⚠️ FCM notification failed: %v", err)
	}
}
