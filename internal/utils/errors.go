package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors shared by the service layer.
var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrEmailExists        = errors.New("email_exists")
	ErrEmailNotVerified   = errors.New("email_not_verified")
	ErrInvalidCode        = errors.New("invalid_verification_code")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrRowVersionConflict = errors.New("row_version_conflict")
	ErrNoRowsUpdated      = errors.New("no_rows_updated")
	ErrLimitReached       = errors.New("limit_reached")

	// External service failures (SendGrid, Twilio, Stripe)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// AppError carries an HTTP status and public code from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError is a small constructor used by services.
func NewAppError(status int, code, msg string, err error) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: msg, Err: err}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
