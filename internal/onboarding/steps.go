// Package onboarding tracks where an account is in the setup wizard and
// decides where it goes next.
package onboarding

// Step is one stage of the fixed setup sequence.
type Step string

const (
	StepRegister         Step = "register"
	StepVerifyEmail      Step = "verify_email"
	StepHotelInformation Step = "hotel_information"
	StepPMSIntegration   Step = "pms_integration"
	StepSelectPlan       Step = "select_plan"
	StepPayment          Step = "payment"
	StepAddCompetitor    Step = "add_competitor"
	StepMSP              Step = "msp"
	StepComplete         Step = "complete"
)

var sequence = []Step{
	StepRegister,
	StepVerifyEmail,
	StepHotelInformation,
	StepPMSIntegration,
	StepSelectPlan,
	StepPayment,
	StepAddCompetitor,
	StepMSP,
	StepComplete,
}

// Steps returns a copy of the sequence in order.
func Steps() []Step {
	out := make([]Step, len(sequence))
	copy(out, sequence)
	return out
}

// Index is the position of s in the sequence, -1 when s is not a member.
func (s Step) Index() int {
	for i, candidate := range sequence {
		if candidate == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool { return s.Index() >= 0 }

func (s Step) String() string { return string(s) }

// NextStep returns the step after s, nil after the last one.
func NextStep(s Step) *Step {
	i := s.Index()
	if i < 0 || i+1 >= len(sequence) {
		return nil
	}
	next := sequence[i+1]
	return &next
}

// PreviousStep returns the step before s, nil before the first one.
func PreviousStep(s Step) *Step {
	i := s.Index()
	if i <= 0 {
		return nil
	}
	prev := sequence[i-1]
	return &prev
}

// IsStepCompleted is true iff s sits strictly before the current step.
func IsStepCompleted(s Step, p Progress) bool {
	i, cur := s.Index(), p.CurrentStep.Index()
	if i < 0 || cur < 0 {
		return false
	}
	return i < cur
}
