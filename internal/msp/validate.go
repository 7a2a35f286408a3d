package msp

import (
	"fmt"
	"strings"
)

// Validate checks the whole list before anything is sent and reports the
// first offending period with the literal dates involved.
func Validate(periods []Period) error {
	if len(periods) == 0 {
		return ErrNoPeriods
	}
	for i, p := range periods {
		if msg := check(p); msg != "" {
			return &ValidationError{Index: i, PeriodID: p.ID, Message: msg}
		}
	}
	return nil
}

func check(p Period) string {
	if strings.TrimSpace(p.FromDate) == "" {
		return "start date is required"
	}
	if strings.TrimSpace(p.ToDate) == "" {
		return "end date is required"
	}
	from, err := ParseDate(p.FromDate)
	if err != nil {
		return fmt.Sprintf("start date (%s) is not a valid date", p.FromDate)
	}
	to, err := ParseDate(p.ToDate)
	if err != nil {
		return fmt.Sprintf("end date (%s) is not a valid date", p.ToDate)
	}
	price, ok := ParsePrice(p.Price)
	if !ok {
		return fmt.Sprintf("price (%s) must be a number", p.Price)
	}
	if price < 0 {
		return fmt.Sprintf("price (%s) must be zero or greater", p.Price)
	}
	if !to.After(from) {
		return fmt.Sprintf("end date (%s) must be after the start date (%s)",
			to.Format(DisplayLayout), from.Format(DisplayLayout))
	}
	return ""
}
