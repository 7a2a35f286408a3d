package models

import (
	"time"

	"github.com/google/uuid"
)

// MSPEntry is a persisted minimum selling price for a date range. Price is
// kept as the NUMERIC text to avoid float rounding.
type MSPEntry struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	FromDate    time.Time `json:"from_date"`
	ToDate      time.Time `json:"to_date"`
	Price       string    `json:"price"`
	PeriodTitle *string   `json:"period_title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Overlaps reports whether the two ranges share at least one day. Both
// ends are inclusive.
func (e *MSPEntry) Overlaps(from, to time.Time) bool {
	return !from.After(e.ToDate) && !to.Before(e.FromDate)
}
