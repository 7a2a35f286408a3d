package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

// ContactSalesRequest is filed when a hotel picks a plan without a
// supported PMS connector.
type ContactSalesRequest struct {
	ID         uuid.UUID          `json:"id"`
	AccountID  uuid.UUID          `json:"account_id"`
	PropertyID uuid.UUID          `json:"property_id"`
	PMSKind    onboarding.PMSKind `json:"pms_kind"`
	PMSName    *string            `json:"pms_name,omitempty"`
	PlanCode   string             `json:"plan_code"`
	Notified   bool               `json:"notified"`
	CreatedAt  time.Time          `json:"created_at"`
}
