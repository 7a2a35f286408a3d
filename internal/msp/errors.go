package msp

import (
	"errors"
	"fmt"
)

var (
	ErrNoPeriods           = errors.New("no_periods")
	ErrUnknownField        = errors.New("unknown_field")
	ErrPeriodConfirmed     = errors.New("period_confirmed")
	ErrPartialBatchFailure = errors.New("partial_batch_failure")
)

// ValidationError points at the first offending period.
type ValidationError struct {
	Index    int    `json:"index"`
	PeriodID string `json:"period_id"`
	Message  string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("period %d: %s", e.Index+1, e.Message)
}
