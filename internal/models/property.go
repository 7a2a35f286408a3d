package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

type PaymentStatusType string

const (
	PaymentStatusUnpaid      PaymentStatusType = "UNPAID"
	PaymentStatusPending     PaymentStatusType = "PENDING"
	PaymentStatusPaid        PaymentStatusType = "PAID"
	PaymentStatusNotRequired PaymentStatusType = "NOT_REQUIRED"
)

// Property is the hotel an account onboards. One per account.
type Property struct {
	Versioned

	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	HotelName     string    `json:"hotel_name"`
	BookingURL    *string   `json:"booking_url,omitempty"`
	HotelType     string    `json:"hotel_type"`
	NumberOfRooms int       `json:"number_of_rooms"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	TimeZone      string    `json:"timezone"`

	PMSKind       *onboarding.PMSKind `json:"pms_kind,omitempty"`
	PMSProviderID *uuid.UUID          `json:"pms_provider_id,omitempty"`
	PMSCustomName *string             `json:"pms_custom_name,omitempty"`

	PlanCode                *string           `json:"plan_code,omitempty"`
	PaymentStatus           PaymentStatusType `json:"payment_status"`
	StripeCheckoutSessionID *string           `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) GetID() string { return p.ID.String() }

// PMSSelection is nil until the pms_integration step stored one.
func (p *Property) PMSSelection() *onboarding.PMSSelection {
	if p.PMSKind == nil {
		return nil
	}
	sel := &onboarding.PMSSelection{Kind: *p.PMSKind}
	if p.PMSProviderID != nil {
		sel.PMSID = p.PMSProviderID.String()
	}
	if p.PMSCustomName != nil {
		sel.Name = *p.PMSCustomName
	}
	return sel
}

func (p *Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
