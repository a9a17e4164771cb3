package models

import "time"

type Ride struct {
	ID             string  `json:"id" db:"id"`
	DriverID       string  `json:"driver_id" db:"driver_id"`
	Departure      string  `json:"departure" db:"departure"`
	Destination    string  `json:"destination" db:"destination"`
	DepartureTime  int64   `json:"departure_time" db:"departure_time"` // Unix timestamp (seconds)
	Price          float64 `json:"price" db:"price"`
	TotalSeats     int     `json:"total_seats" db:"total_seats"`
	SeatsAvailable int     `json:"seats_available" db:"seats_available"`
	CreatedAt      int64   `json:"created_at" db:"created_at"`
	UpdatedAt      int64   `json:"updated_at" db:"updated_at"`
}

type RideResponse struct {
	ID             string  `json:"id"`
	DriverID       string  `json:"driver_id"`
	Departure      string  `json:"departure"`
	Destination    string  `json:"destination"`
	DepartureTime  int64   `json:"departure_time"`
	DepartureIso   string  `json:"departure_time_iso"`
	Price          float64 `json:"price"`
	TotalSeats     int     `json:"total_seats"`
	SeatsAvailable int     `json:"seats_available"`
	CreatedAt      int64   `json:"created_at"`
}

func (r *Ride) ToRideResponse() RideResponse {
	return RideResponse{
		ID:             r.ID,
		DriverID:       r.DriverID,
		Departure:      r.Departure,
		Destination:    r.Destination,
		DepartureTime:  r.DepartureTime,
		DepartureIso:   time.Unix(r.DepartureTime, 0).UTC().Format(time.RFC3339),
		Price:          r.Price,
		TotalSeats:     r.TotalSeats,
		SeatsAvailable: r.SeatsAvailable,
		CreatedAt:      r.CreatedAt,
	}
}
