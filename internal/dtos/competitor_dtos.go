package dtos

import "github.com/Alejoss/Vivere-Stays-sub001/internal/models"

type CreateCompetitorRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=200"`
	BookingURL *string  `json:"booking_url,omitempty" validate:"omitempty,url"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

type CompetitorsResponse struct {
	Competitors []*models.Competitor `json:"competitors"`
	Max         int                  `json:"max"`
}
