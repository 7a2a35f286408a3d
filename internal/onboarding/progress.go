package onboarding

import "time"

// Progress is the server-held position of one account in the wizard.
type Progress struct {
	CurrentStep Step       `json:"current_step"`
	Completed   bool       `json:"completed"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// CompletionMap reports IsStepCompleted for every step.
func (p Progress) CompletionMap() map[Step]bool {
	out := make(map[Step]bool, len(sequence))
	for _, s := range sequence {
		out[s] = p.Completed || IsStepCompleted(s, p)
	}
	return out
}

type PMSKind string

const (
	PMSKindStandard PMSKind = "standard"
	PMSKindCustom   PMSKind = "custom"
	PMSKindNone     PMSKind = "none"
)

func (k PMSKind) Valid() bool {
	switch k {
	case PMSKindStandard, PMSKindCustom, PMSKindNone:
		return true
	}
	return false
}

// PMSSelection is the choice captured at pms_integration. It cannot be
// derived from the step and decides the branch taken after select_plan.
type PMSSelection struct {
	Kind  PMSKind `json:"kind"`
	PMSID string  `json:"pms_id,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// RequiresSales is true when no supported PMS connector applies.
func (s PMSSelection) RequiresSales() bool {
	return s.Kind == PMSKindCustom || s.Kind == PMSKindNone
}
