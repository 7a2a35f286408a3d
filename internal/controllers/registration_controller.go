package controllers

import (
	"net/http"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type RegistrationController struct {
	registration services.RegistrationService
	verification services.EmailVerificationService
}

func NewRegistrationController(registration services.RegistrationService, verification services.EmailVerificationService) *RegistrationController {
	return &RegistrationController{registration: registration, verification: verification}
}

// POST /api/v1/onboarding/register
func (c *RegistrationController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := c.registration.Register(r.Context(), req)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// POST /api/v1/onboarding/verify-email/request
func (c *RegistrationController) RequestEmailCodeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	if err := c.verification.RequestCode(r.Context(), id); err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Verification code sent"})
}

// POST /api/v1/onboarding/verify-email/confirm
func (c *RegistrationController) ConfirmEmailCodeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.ConfirmEmailRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := c.verification.ConfirmCode(r.Context(), id, req.Code)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}
