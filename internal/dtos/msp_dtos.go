package dtos

import (
	"github.com/Alejoss/Vivere-Stays-sub001/internal/msp"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

type MSPBatchRequest struct {
	PropertyID string      `json:"property_id" validate:"required,uuid"`
	Periods    []msp.Entry `json:"periods" validate:"required,min=1"`
}

// MSPEntryResponse is an entry with the national holidays its range covers.
type MSPEntryResponse struct {
	msp.Entry
	Holidays []string `json:"holidays"`
}

type MSPEntriesResponse struct {
	Entries []MSPEntryResponse `json:"entries"`
}

type MSPDraftResponse struct {
	PropertyID string       `json:"property_id"`
	Periods    []msp.Period `json:"periods"`
}

type UpdatePeriodRequest struct {
	Field string `json:"field" validate:"required,oneof=from_date to_date price period_title"`
	Value string `json:"value"`
}

type MSPSubmitResponse struct {
	Outcome    msp.Outcome            `json:"outcome"`
	Periods    []msp.Period           `json:"periods"`
	Transition *onboarding.Transition `json:"transition,omitempty"`
}
