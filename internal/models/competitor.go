package models

import (
	"time"

	"github.com/google/uuid"
)

type Competitor struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	BookingURL *string   `json:"booking_url,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
