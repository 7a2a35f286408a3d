package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/middleware"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/msp"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

var validate = validator.New()

// maxBodyBytes caps request bodies; MSP batches are the largest payload.
const maxBodyBytes = 1 << 20

func accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sub, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing userID in context", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid userID format", nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, err)
		return false
	}
	return true
}

// respondError maps service errors to HTTP. details rides along on 4xx.
func respondError(w http.ResponseWriter, err error, details any) {
	var appErr *utils.AppError
	var vErr *msp.ValidationError

	switch {
	case errors.As(err, &appErr):
		utils.RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, details, appErr.Err)
	case errors.As(err, &vErr):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, vErr.Message, vErr, err)
	case errors.Is(err, msp.ErrNoPeriods):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Add at least one period", details, err)
	case errors.Is(err, msp.ErrUnknownField):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Unknown period field", details, err)
	case errors.Is(err, msp.ErrPeriodConfirmed):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodePeriodConfirmed, "Saved periods cannot be edited", details, err)
	case errors.Is(err, msp.ErrPartialBatchFailure):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodePartialBatchFailure, "Some periods could not be saved", details, err)
	case errors.Is(err, onboarding.ErrStaleOrMissingProgress):
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeProgressUnavailable, "Onboarding progress is unavailable, please retry", details, err)
	case errors.Is(err, onboarding.ErrUnrecognizedStep):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeUnrecognizedStep, "Unknown onboarding step", details, err)
	case errors.Is(err, onboarding.ErrNoNextStep):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Onboarding has no step after this one", details, err)
	case errors.Is(err, onboarding.ErrStepNotReached):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeStepNotReached, "This step has not been reached yet", details, err)
	case errors.Is(err, onboarding.ErrStepRequirementsUnmet):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeStepRequirements, err.Error(), details, err)
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", details, err)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "The record changed, please retry", details, err)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "An external service failed, please retry", nil, err)
	default:
		utils.HandleAppError(w, err)
	}
}
