package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchDayWindow(t *testing.T) {
	start, end, err := searchDayWindow("2026-09-01")
	if err != nil {
		t.Fatalf("searchDayWindow returned error: %v", err)
	}
	if end-start != 24*60*60 {
		t.Errorf("window length = %d seconds, want 86400", end-start)
	}
	// 2026-09-01T00:00:00Z
	if start != 1788220800 {
		t.Errorf("window start = %d, want 1788220800", start)
	}
}

func TestSearchDayWindowBadDate(t *testing.T) {
	for _, date := range []string{"2026-9-1", "01-09-2026", "tomorrow", ""} {
		if _, _, err := searchDayWindow(date); err == nil {
			t.Errorf("searchDayWindow(%q) expected error, got nil", date)
		}
	}
}

func TestSearchRidesRejectsBadQuery(t *testing.T) {
	handler := SearchRides(nil)

	tests := []struct {
		name   string
		target string
	}{
		{"missing destination", "/rides/search?date=2026-09-01"},
		{"missing date", "/rides/search?destination=Lyon"},
		{"bad date format", "/rides/search?destination=Lyon&date=09/01/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestValidateCreateRide(t *testing.T) {
	valid := CreateRideRequest{
		Departure:     "Paris",
		Destination:   "Lyon",
		DepartureTime: "2026-09-01T09:00:00Z",
		Price:         25.0,
		Seats:         3,
	}
	if msg := validateCreateRide(valid); msg != "" {
		t.Errorf("valid request rejected: %s", msg)
	}

	tests := []struct {
		name   string
		mutate func(*CreateRideRequest)
	}{
		{"missing departure", func(r *CreateRideRequest) { r.Departure = "" }},
		{"missing destination", func(r *CreateRideRequest) { r.Destination = "" }},
		{"missing departure_time", func(r *CreateRideRequest) { r.DepartureTime = "" }},
		{"non-RFC3339 departure_time", func(r *CreateRideRequest) { r.DepartureTime = "2026-09-01 09:00" }},
		{"zero price", func(r *CreateRideRequest) { r.Price = 0 }},
		{"negative price", func(r *CreateRideRequest) { r.Price = -5 }},
		{"zero seats", func(r *CreateRideRequest) { r.Seats = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if msg := validateCreateRide(req); msg == "" {
				t.Error("expected a validation message, got none")
			}
		})
	}
}
