package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

// OnboardingProgress is one row of onboarding_progress, keyed by account.
type OnboardingProgress struct {
	Versioned

	AccountID   uuid.UUID       `json:"account_id"`
	CurrentStep onboarding.Step `json:"current_step"`
	Completed   bool            `json:"completed"`
	StartedAt   *time.Time      `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *OnboardingProgress) GetID() string { return p.AccountID.String() }

func (p *OnboardingProgress) ToProgress() onboarding.Progress {
	return onboarding.Progress{
		CurrentStep: p.CurrentStep,
		Completed:   p.Completed,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
	}
}
