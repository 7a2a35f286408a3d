package controllers

import (
	"net/http"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type HotelController struct {
	hotels services.HotelService
}

func NewHotelController(hotels services.HotelService) *HotelController {
	return &HotelController{hotels: hotels}
}

// GET /api/v1/onboarding/hotel
func (c *HotelController) GetHotelHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	prop, err := c.hotels.GetHotel(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HotelResponse{Hotel: prop})
}

// PUT /api/v1/onboarding/hotel
func (c *HotelController) SaveHotelHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.HotelRequest
	if !decode(w, r, &req) {
		return
	}
	prop, err := c.hotels.SaveHotel(r.Context(), id, req)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HotelResponse{Hotel: prop})
}

// GET /api/v1/onboarding/pms/providers
func (c *HotelController) ListPMSProvidersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.hotels.ListPMSProviders(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PMSProvidersResponse{Providers: list})
}

// PUT /api/v1/onboarding/pms
func (c *HotelController) SavePMSHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.PMSSelectionRequest
	if !decode(w, r, &req) {
		return
	}
	prop, err := c.hotels.SavePMSSelection(r.Context(), id, req)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HotelResponse{Hotel: prop})
}
