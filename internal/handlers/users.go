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
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type CreateUserResponse struct {
	Success bool                 `json:"success"`
	User    *models.UserResponse `json:"user,omitempty"`
	Message string               `json:"message,omitempty"`
}

// CreateUser registers a new account. Open signup, no auth required.
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /users - Create new user")

		// Parse request body
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Validate required fields
		if req.Email == "" || req.Password == "" || req.Name == "" {
			log.Println("❌ Missing required fields")
			utils.RespondError(w, http.StatusBadRequest, "Email, password and name are required")
			return
		}

		// Hash password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash password: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		// Create user
		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hashedPassword),
			Name:      req.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		// Insert into database. The unique index on email is the source of
		// truth for duplicates, so there is no separate existence check to race.
		insertQuery := `
			INSERT INTO users (id, email, password, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = db.Exec(
			insertQuery,
			user.ID,
			user.Email,
			user.Password,
			user.Name,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
				log.Printf("❌ User already exists: %s", req.Email)
				utils.RespondError(w, http.StatusConflict, "User with this email already exists")
				return
			}
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ USER CREATED: %s (%s)", user.Email, user.ID)

		// Return user response (without password)
		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusCreated, CreateUserResponse{
			Success: true,
			User:    &userResponse,
			Message: "User created successfully",
		})
	}
}

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"` // "ios" or "android"
}

// RegisterFCMToken stores or refreshes a device token for push notifications.
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Token == "" || (req.DeviceType != "ios" && req.DeviceType != "android") {
			utils.RespondError(w, http.StatusBadRequest, "Token and a device_type of 'ios' or 'android' are required")
			return
		}

		// A token can migrate between accounts on shared devices, so the
		// upsert reassigns ownership rather than failing.
		query := `
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, EXTRACT(EPOCH FROM NOW())::BIGINT, EXTRACT(EPOCH FROM NOW())::BIGINT)
			ON CONFLICT (token)
			DO UPDATE SET
				user_id = EXCLUDED.user_id,
				device_type = EXCLUDED.device_type,
				updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
		`
		var stored models.FCMToken
		if err := db.Get(&stored, query+" RETURNING *", claims.UserID, req.Token, req.DeviceType); err != nil {
			log.Printf("❌ Failed to register FCM token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		log.Printf("✅ FCM token registered for user %s (%s)", claims.UserID, req.DeviceType)
		utils.RespondJSON(w, http.StatusOK, stored)
	}
}
