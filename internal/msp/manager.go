package msp

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager derives defaults for new periods. Now and NewID are swappable
// for tests; Location is the hotel's zone used to decide "today".
type Manager struct {
	Now      func() time.Time
	NewID    func() string
	Location *time.Location
}

func NewManager(loc *time.Location) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{Now: time.Now, NewID: uuid.NewString, Location: loc}
}

func (m *Manager) today() string {
	return m.Now().In(m.Location).Format(DateLayout)
}

// Initialize uses the persisted entries verbatim when there are any,
// otherwise starts a single draft from today.
func (m *Manager) Initialize(existing []Entry) []Period {
	if len(existing) > 0 {
		out := make([]Period, 0, len(existing))
		for _, e := range existing {
			out = append(out, periodFromEntry(e))
		}
		return out
	}
	return []Period{m.draft(m.today())}
}

// AddPeriod appends a draft chained to the previous one: it starts the day
// after the last end date, or today when that date is not set yet.
func (m *Manager) AddPeriod(current []Period) []Period {
	from := m.today()
	if n := len(current); n > 0 {
		if last, err := ParseDate(current[n-1].ToDate); err == nil {
			from = last.AddDate(0, 0, 1).Format(DateLayout)
		}
	}
	out := make([]Period, len(current), len(current)+1)
	copy(out, current)
	return append(out, m.draft(from))
}

func (m *Manager) draft(from string) Period {
	return Period{ID: m.NewID(), FromDate: from, Price: "0"}
}

// RemovePeriod drops the period with id. The list never shrinks below one
// entry and confirmed periods stay.
func RemovePeriod(current []Period, id string) []Period {
	if len(current) <= 1 {
		return current
	}
	out := make([]Period, 0, len(current))
	for _, p := range current {
		if p.ID == id && !p.Confirmed {
			continue
		}
		out = append(out, p)
	}
	return out
}

// UpdatePeriod replaces one field of the period with id.
func UpdatePeriod(current []Period, id string, field Field, value string) ([]Period, error) {
	switch field {
	case FieldFromDate, FieldToDate, FieldPrice, FieldPeriodTitle:
	default:
		return current, ErrUnknownField
	}

	out := make([]Period, len(current))
	copy(out, current)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if out[i].Confirmed {
			return current, ErrPeriodConfirmed
		}
		value = strings.TrimSpace(value)
		switch field {
		case FieldFromDate:
			out[i].FromDate = value
		case FieldToDate:
			out[i].ToDate = value
		case FieldPrice:
			out[i].Price = value
		case FieldPeriodTitle:
			out[i].PeriodTitle = value
		}
		out[i].Error = ""
	}
	return out, nil
}
