package dtos

import "github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

type RegisterResponse struct {
	AccountID   string              `json:"account_id"`
	AccessToken string              `json:"access_token"`
	Progress    onboarding.Progress `json:"progress"`
	Route       onboarding.Route    `json:"route"`
}

type ConfirmEmailRequest struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=8"`
}

type ProgressResponse struct {
	Progress   onboarding.Progress      `json:"progress"`
	Completion map[onboarding.Step]bool `json:"completion"`
	Route      onboarding.Route         `json:"route"`
}

func NewProgressResponse(p onboarding.Progress, route onboarding.Route) ProgressResponse {
	return ProgressResponse{Progress: p, Completion: p.CompletionMap(), Route: route}
}

type LandingResponse struct {
	Route onboarding.Route `json:"route"`
}

type AdvanceRequest struct {
	Step string `json:"step" validate:"required"`
}

type ContinueResponse struct {
	Route onboarding.Route `json:"route"`
}

// ProgressErrorDetails is attached to progress errors. LastKnown is what
// the cache held and is informational only.
type ProgressErrorDetails struct {
	LastKnown *onboarding.Progress `json:"last_known,omitempty"`
}
