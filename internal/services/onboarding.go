package services

import (
	"context"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

// Wizard is the part of *onboarding.Orchestrator the feature services use
// to move an account forward once their step's work is saved.
type Wizard interface {
	Advance(ctx context.Context, accountID string, step onboarding.Step) (*onboarding.Transition, error)
	Routes() onboarding.RouteTable
	RememberPMSSelection(accountID string, sel onboarding.PMSSelection)
}
