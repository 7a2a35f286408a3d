package models

import "github.com/google/uuid"

// PMSProvider is a property-management system with a supported connector.
type PMSProvider struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}
