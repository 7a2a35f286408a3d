package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/msp"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// MSPPeriods is the *services.MSPService surface used here.
type MSPPeriods interface {
	Batch(ctx context.Context, accountID uuid.UUID, req dtos.MSPBatchRequest) (*msp.BatchResult, error)
	ListEntries(ctx context.Context, accountID uuid.UUID, propertyID string) (*dtos.MSPEntriesResponse, error)
	Draft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error)
	AddPeriod(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error)
	UpdatePeriod(ctx context.Context, accountID uuid.UUID, periodID string, field msp.Field, value string) (*dtos.MSPDraftResponse, error)
	RemovePeriod(ctx context.Context, accountID uuid.UUID, periodID string) (*dtos.MSPDraftResponse, error)
	ValidateDraft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error)
	SubmitDraft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPSubmitResponse, error)
}

type MSPController struct {
	periods MSPPeriods
}

func NewMSPController(periods MSPPeriods) *MSPController {
	return &MSPController{periods: periods}
}

// POST /api/v1/onboarding/msp/batch
func (c *MSPController) SubmitBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.MSPBatchRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := c.periods.Batch(r.Context(), id, req)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	// item failures are part of a normal answer
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /api/v1/onboarding/msp/batch?property_id=
func (c *MSPController) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "property_id is required", nil)
		return
	}
	resp, err := c.periods.ListEntries(r.Context(), id, propertyID)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/onboarding/msp/draft
func (c *MSPController) GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.periods.Draft(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/onboarding/msp/draft/periods
func (c *MSPController) AddPeriodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.periods.AddPeriod(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/onboarding/msp/draft/periods/{id}
func (c *MSPController) UpdatePeriodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdatePeriodRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := c.periods.UpdatePeriod(r.Context(), id, mux.Vars(r)["id"], msp.Field(req.Field), req.Value)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// DELETE /api/v1/onboarding/msp/draft/periods/{id}
func (c *MSPController) RemovePeriodHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.periods.RemovePeriod(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/onboarding/msp/draft/validate
func (c *MSPController) ValidateDraftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.periods.ValidateDraft(r.Context(), id)
	if err != nil {
		if resp != nil {
			respondError(w, err, resp)
			return
		}
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/onboarding/msp/draft/submit
func (c *MSPController) SubmitDraftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.periods.SubmitDraft(r.Context(), id)
	if err != nil {
		if resp != nil {
			respondError(w, err, resp)
			return
		}
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
