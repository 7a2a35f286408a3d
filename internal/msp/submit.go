package msp

import (
	"context"
	"fmt"
	"strings"
)

// Gateway persists a batch. Items succeed or fail independently.
type Gateway interface {
	SubmitBatch(ctx context.Context, propertyID string, entries []Entry) (*BatchResult, error)
}

// Failure ties a rejected item back to the period it came from.
type Failure struct {
	ClientRef string `json:"client_ref"`
	Message   string `json:"message"`
}

type BatchResult struct {
	Created  []Entry   `json:"created"`
	Errors   []string  `json:"errors"`
	Failures []Failure `json:"failures,omitempty"`
}

// Outcome summarises a submission. Only a clean outcome lets the wizard
// move on.
type Outcome struct {
	CreatedCount int      `json:"created_count"`
	Errors       []string `json:"errors"`
}

func (o Outcome) Succeeded() bool { return len(o.Errors) == 0 }

// Err is nil for a clean outcome and wraps ErrPartialBatchFailure otherwise.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPartialBatchFailure, strings.Join(o.Errors, "; "))
}

// Submit validates locally, sends the unconfirmed periods and merges the
// answer back. A validation or transport error leaves periods untouched.
func (m *Manager) Submit(ctx context.Context, gw Gateway, propertyID string, periods []Period) (Outcome, []Period, error) {
	if err := Validate(periods); err != nil {
		return Outcome{}, periods, err
	}

	var batch []Entry
	for _, p := range periods {
		if !p.Confirmed {
			batch = append(batch, p.toEntry(propertyID))
		}
	}
	if len(batch) == 0 {
		return Outcome{Errors: []string{}}, periods, nil
	}

	res, err := gw.SubmitBatch(ctx, propertyID, batch)
	if err != nil {
		return Outcome{}, periods, err
	}

	merged := Merge(periods, res)
	errs := append([]string{}, res.Errors...)
	if len(errs) == 0 {
		for _, p := range merged {
			if !p.Confirmed {
				errs = append(errs, fmt.Sprintf("period %s: %s", FormatDisplay(p.FromDate), errNotConfirmed))
			}
		}
	}
	return Outcome{CreatedCount: len(res.Created), Errors: errs}, merged, nil
}

const errNotConfirmed = "not confirmed by the server"

// Merge folds a batch result into the editable list. Created entries
// replace their period as confirmed; rejected periods keep their data and
// carry the server's message.
func Merge(periods []Period, res *BatchResult) []Period {
	created := make(map[string]Entry, len(res.Created))
	for _, e := range res.Created {
		created[e.ClientRef] = e
	}
	failed := make(map[string]string, len(res.Failures))
	for _, f := range res.Failures {
		if prev, ok := failed[f.ClientRef]; ok {
			failed[f.ClientRef] = prev + "; " + f.Message
		} else {
			failed[f.ClientRef] = f.Message
		}
	}
	// errors that cannot be tied to a period are shown on every leftover
	unattributed := strings.Join(res.Errors, "; ")
	if len(res.Failures) > 0 {
		unattributed = ""
	}

	out := make([]Period, 0, len(periods))
	for _, p := range periods {
		if p.Confirmed {
			out = append(out, p)
			continue
		}
		if e, ok := created[p.ID]; ok {
			out = append(out, periodFromEntry(e))
			continue
		}
		switch msg, ok := failed[p.ID]; {
		case ok:
			p.Error = msg
		case unattributed != "":
			p.Error = unattributed
		default:
			p.Error = errNotConfirmed
		}
		out = append(out, p)
	}
	return out
}
