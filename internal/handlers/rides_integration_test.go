package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"covoiturage-backend/internal/models"
)

// Zero matches is a normal outcome: HTTP 200 with an empty JSON list,
// never an error status.
func TestSearchNoMatchesReturnsEmptyList(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	createTestRide(t, db, userID, 3) // Paris → Lyon, ~48h out

	handler := SearchRides(db)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rides/search?destination=Atlantis&date=2030-01-01", nil)
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (empty result is not an error)", rec.Code, http.StatusOK)
	}

	var rides []models.RideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rides); err != nil {
		t.Fatalf("body is not a JSON list: %v (body: %s)", err, rec.Body.String())
	}
	if len(rides) != 0 {
		t.Errorf("got %d rides, want 0", len(rides))
	}
}
