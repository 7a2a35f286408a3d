package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepSequence(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, 9)
	assert.Equal(t, StepRegister, steps[0])
	assert.Equal(t, StepComplete, steps[len(steps)-1])

	steps[0] = "mutated"
	assert.Equal(t, StepRegister, Steps()[0], "Steps must return a copy")
}

func TestNextAndPreviousStep(t *testing.T) {
	next := NextStep(StepPayment)
	require.NotNil(t, next)
	assert.Equal(t, StepAddCompetitor, *next)

	assert.Nil(t, NextStep(StepComplete))
	assert.Nil(t, NextStep(Step("bogus")))

	prev := PreviousStep(StepVerifyEmail)
	require.NotNil(t, prev)
	assert.Equal(t, StepRegister, *prev)

	assert.Nil(t, PreviousStep(StepRegister))
	assert.Nil(t, PreviousStep(Step("bogus")))
}

func TestIsStepCompleted(t *testing.T) {
	p := Progress{CurrentStep: StepSelectPlan}

	assert.True(t, IsStepCompleted(StepRegister, p))
	assert.True(t, IsStepCompleted(StepPMSIntegration, p))
	assert.False(t, IsStepCompleted(StepSelectPlan, p))
	assert.False(t, IsStepCompleted(StepMSP, p))
	assert.False(t, IsStepCompleted(Step("bogus"), p))
	assert.False(t, IsStepCompleted(StepRegister, Progress{CurrentStep: "bogus"}))
}

func TestCompletionMap(t *testing.T) {
	m := Progress{CurrentStep: StepHotelInformation}.CompletionMap()
	assert.True(t, m[StepRegister])
	assert.True(t, m[StepVerifyEmail])
	assert.False(t, m[StepHotelInformation])
	assert.False(t, m[StepComplete])

	done := Progress{CurrentStep: StepComplete, Completed: true}.CompletionMap()
	for _, s := range Steps() {
		assert.True(t, done[s], s)
	}
}

func TestPMSSelectionRequiresSales(t *testing.T) {
	assert.False(t, PMSSelection{Kind: PMSKindStandard, PMSID: "x"}.RequiresSales())
	assert.True(t, PMSSelection{Kind: PMSKindCustom, Name: "Homegrown"}.RequiresSales())
	assert.True(t, PMSSelection{Kind: PMSKindNone}.RequiresSales())
	assert.False(t, PMSSelection{}.RequiresSales())
	assert.False(t, PMSKind("other").Valid())
}
