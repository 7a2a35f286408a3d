package dtos

import "github.com/Alejoss/Vivere-Stays-sub001/internal/constants"

type PlansResponse struct {
	Plans    []constants.Plan `json:"plans"`
	Selected *string          `json:"selected,omitempty"`
}

type SelectPlanRequest struct {
	PlanCode string `json:"plan_code" validate:"required"`
}

type SelectPlanResponse struct {
	PlanCode string `json:"plan_code"`
	// RequiresSales is true when payment is skipped and sales will get in touch.
	RequiresSales bool `json:"requires_sales"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
