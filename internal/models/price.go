package models

import "time"

// RoomPrice maps a room-type label to its trusted amount in rupees.
// Only the admin endpoint may mutate it; order creation reads it to price
// bookings regardless of what the client claims.
type RoomPrice struct {
	RoomType  string    `json:"room_type" db:"room_type"`
	Price     int64     `json:"price" db:"price"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdatePriceRequest represents the admin request to set a room price
type UpdatePriceRequest struct {
	RoomType string `json:"roomType"`
	NewPrice *int64 `json:"newPrice"`
}
