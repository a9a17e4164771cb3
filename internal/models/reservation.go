package models

type Reservation struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	RideID    string `json:"ride_id" db:"ride_id"`
	Seats     int    `json:"seats" db:"seats"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
