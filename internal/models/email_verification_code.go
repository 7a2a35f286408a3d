package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationCode is a row of email_verification_codes.
type EmailVerificationCode struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	Email            string
	VerificationCode string
	ExpiresAt        time.Time
	Attempts         int
	Verified         bool
	VerifiedAt       *time.Time
	CreatedAt        time.Time
}
