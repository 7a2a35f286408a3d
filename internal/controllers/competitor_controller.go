package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type CompetitorController struct {
	competitors services.CompetitorService
}

func NewCompetitorController(competitors services.CompetitorService) *CompetitorController {
	return &CompetitorController{competitors: competitors}
}

// GET /api/v1/onboarding/competitors
func (c *CompetitorController) ListHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.competitors.List(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/onboarding/competitors
func (c *CompetitorController) AddHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.CreateCompetitorRequest
	if !decode(w, r, &req) {
		return
	}
	comp, err := c.competitors.Add(r.Context(), id, req)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, comp)
}

// DELETE /api/v1/onboarding/competitors/{id}
func (c *CompetitorController) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	compID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid competitor id", nil, err)
		return
	}
	if err := c.competitors.Remove(r.Context(), id, compID); err != nil {
		respondError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
