package controllers

import (
	"net/http"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type PlanController struct {
	plans services.PlanService
}

func NewPlanController(plans services.PlanService) *PlanController {
	return &PlanController{plans: plans}
}

// GET /api/v1/onboarding/plans
func (c *PlanController) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.plans.ListPlans(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/v1/onboarding/plan
func (c *PlanController) SelectPlanHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.SelectPlanRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := c.plans.SelectPlan(r.Context(), id, req.PlanCode)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/onboarding/contact-sales/continue
func (c *PlanController) ContinueAfterContactSalesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	route, err := c.plans.ContinueAfterContactSales(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ContinueResponse{Route: route})
}
