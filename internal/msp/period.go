// Package msp manages the minimum-selling-price periods a hotel edits
// during onboarding: defaults, validation and batch submission.
package msp

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of every date.
	DateLayout = "2006-01-02"
	// DisplayLayout is used in messages shown to the user.
	DisplayLayout = "02/01/2006"
)

type Field string

const (
	FieldFromDate    Field = "from_date"
	FieldToDate      Field = "to_date"
	FieldPrice       Field = "price"
	FieldPeriodTitle Field = "period_title"
)

// Period is one editable row. Dates are empty until set and price keeps the
// raw text typed by the user.
type Period struct {
	ID          string `json:"id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Price       string `json:"price"`
	PeriodTitle string `json:"period_title,omitempty"`
	Confirmed   bool   `json:"confirmed"`
	Error       string `json:"error,omitempty"`
}

// Entry is a persisted MSP record. ClientRef echoes the Period.ID it was
// created from.
type Entry struct {
	ID          string `json:"id"`
	PropertyID  string `json:"property_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Price       string `json:"price"`
	PeriodTitle string `json:"period_title,omitempty"`
	ClientRef   string `json:"client_ref,omitempty"`
}

// ParseDate reads a wire date at day granularity (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDisplay renders a wire date as DD/MM/YYYY, or the input verbatim
// when it does not parse.
func FormatDisplay(s string) string {
	d, err := ParseDate(s)
	if err != nil {
		return s
	}
	return d.Format(DisplayLayout)
}

// ParsePrice accepts a non-negative decimal such as "120" or "99.50".
// A comma decimal separator is accepted as well.
func ParsePrice(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p Period) toEntry(propertyID string) Entry {
	return Entry{
		PropertyID:  propertyID,
		FromDate:    strings.TrimSpace(p.FromDate),
		ToDate:      strings.TrimSpace(p.ToDate),
		Price:       strings.ReplaceAll(strings.TrimSpace(p.Price), ",", "."),
		PeriodTitle: strings.TrimSpace(p.PeriodTitle),
		ClientRef:   p.ID,
	}
}

func periodFromEntry(e Entry) Period {
	return Period{
		ID:          e.ID,
		FromDate:    e.FromDate,
		ToDate:      e.ToDate,
		Price:       e.Price,
		PeriodTitle: e.PeriodTitle,
		Confirmed:   true,
	}
}
