package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// ProgressOrchestrator is the *onboarding.Orchestrator surface served here.
type ProgressOrchestrator interface {
	Progress(ctx context.Context, accountID string) (*onboarding.Progress, error)
	Landing(ctx context.Context, accountID string) (onboarding.Route, *onboarding.Progress, error)
	Advance(ctx context.Context, accountID string, step onboarding.Step) (*onboarding.Transition, error)
	Cached(accountID string) (*onboarding.Progress, bool)
	Routes() onboarding.RouteTable
}

type OnboardingController struct {
	orchestrator ProgressOrchestrator
}

func NewOnboardingController(o ProgressOrchestrator) *OnboardingController {
	return &OnboardingController{orchestrator: o}
}

// lastKnown is attached to progress errors so the client can show what it
// last saw next to the error; it never picks a route.
func (c *OnboardingController) lastKnown(accountID string) any {
	if p, ok := c.orchestrator.Cached(accountID); ok {
		return dtos.ProgressErrorDetails{LastKnown: p}
	}
	return nil
}

// GET /api/v1/onboarding/progress
func (c *OnboardingController) GetProgressHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	p, err := c.orchestrator.Progress(r.Context(), id.String())
	if err != nil {
		respondError(w, err, c.lastKnown(id.String()))
		return
	}
	route := c.orchestrator.Routes().ResolveLandingStep(*p)
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewProgressResponse(*p, route))
}

// GET /api/v1/onboarding/progress/landing
func (c *OnboardingController) LandingHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	route, _, err := c.orchestrator.Landing(r.Context(), id.String())
	if err != nil {
		respondError(w, err, c.lastKnown(id.String()))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LandingResponse{Route: route})
}

// POST /api/v1/onboarding/progress/advance
func (c *OnboardingController) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.AdvanceRequest
	if !decode(w, r, &req) {
		return
	}
	step := onboarding.Step(strings.TrimSpace(req.Step))
	t, err := c.orchestrator.Advance(r.Context(), id.String(), step)
	if err != nil {
		respondError(w, err, c.lastKnown(id.String()))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}
