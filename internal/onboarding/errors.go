package onboarding

import "errors"

var (
	// ErrStaleOrMissingProgress means the progress store could not be read.
	// Callers must show an error state instead of guessing a step.
	ErrStaleOrMissingProgress = errors.New("stale_or_missing_progress")

	// ErrUnrecognizedStep is returned for step names outside the sequence.
	ErrUnrecognizedStep = errors.New("unrecognized_step")

	// ErrNoNextStep is returned when advancing from the last step.
	ErrNoNextStep = errors.New("no_next_step")

	// ErrStepNotReached is returned when advancing from a step the account
	// has not reached yet.
	ErrStepNotReached = errors.New("step_not_reached")

	// ErrStepRequirementsUnmet is returned when the step's work is not done.
	ErrStepRequirementsUnmet = errors.New("step_requirements_unmet")
)
