package dtos

import (
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

type HotelRequest struct {
	HotelName     string   `json:"hotel_name" validate:"required,min=2,max=200"`
	BookingURL    *string  `json:"booking_url,omitempty" validate:"omitempty,url"`
	HotelType     string   `json:"hotel_type" validate:"required,oneof=hotel boutique hostel apartment resort guesthouse other"`
	NumberOfRooms int      `json:"number_of_rooms" validate:"required,min=1,max=10000"`
	Address       string   `json:"address" validate:"required,min=3"`
	City          string   `json:"city" validate:"required,min=2"`
	PostalCode    string   `json:"postal_code" validate:"required,max=12"`
	Country       string   `json:"country" validate:"required,iso3166_1_alpha2"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

type HotelResponse struct {
	Hotel *models.Property `json:"hotel"`
}

type PMSSelectionRequest struct {
	Kind  string  `json:"kind" validate:"required,oneof=standard custom none"`
	PMSID *string `json:"pms_id,omitempty" validate:"omitempty,uuid"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
}

type PMSProvidersResponse struct {
	Providers []*models.PMSProvider `json:"providers"`
}
