package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/middleware"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/msp"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/routes"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func authed(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUserID, id.String()))
}

// ---------------------------------------------------------------------
// onboarding progress
// ---------------------------------------------------------------------

type stubOrchestrator struct {
	progress   *onboarding.Progress
	err        error
	cached     *onboarding.Progress
	transition *onboarding.Transition
	gotStep    onboarding.Step
}

func (s *stubOrchestrator) Progress(context.Context, string) (*onboarding.Progress, error) {
	return s.progress, s.err
}

func (s *stubOrchestrator) Landing(ctx context.Context, id string) (onboarding.Route, *onboarding.Progress, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.Routes().ResolveLandingStep(*s.progress), s.progress, nil
}

func (s *stubOrchestrator) Advance(_ context.Context, _ string, step onboarding.Step) (*onboarding.Transition, error) {
	s.gotStep = step
	return s.transition, s.err
}

func (s *stubOrchestrator) Cached(string) (*onboarding.Progress, bool) {
	return s.cached, s.cached != nil
}

func (s *stubOrchestrator) Routes() onboarding.RouteTable { return onboarding.DefaultRouteTable() }

func onboardingRouter(o ProgressOrchestrator) *mux.Router {
	c := NewOnboardingController(o)
	r := mux.NewRouter()
	r.HandleFunc(routes.Progress, c.GetProgressHandler).Methods("GET")
	r.HandleFunc(routes.ProgressLanding, c.LandingHandler).Methods("GET")
	r.HandleFunc(routes.ProgressAdvance, c.AdvanceHandler).Methods("POST")
	return r
}

func TestGetProgress(t *testing.T) {
	o := &stubOrchestrator{progress: &onboarding.Progress{CurrentStep: onboarding.StepSelectPlan}}
	rec := httptest.NewRecorder()
	onboardingRouter(o).ServeHTTP(rec, authed(httptest.NewRequest("GET", routes.Progress, nil), uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body dtos.ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, onboarding.StepSelectPlan, body.Progress.CurrentStep)
	assert.Equal(t, onboarding.Route("/onboarding/select-plan"), body.Route)
	assert.True(t, body.Completion[onboarding.StepPMSIntegration])
	assert.False(t, body.Completion[onboarding.StepSelectPlan])
}

func TestGetProgressUnavailableCarriesLastKnown(t *testing.T) {
	o := &stubOrchestrator{
		err:    fmt.Errorf("%w: timeout", onboarding.ErrStaleOrMissingProgress),
		cached: &onboarding.Progress{CurrentStep: onboarding.StepPayment},
	}
	rec := httptest.NewRecorder()
	onboardingRouter(o).ServeHTTP(rec, authed(httptest.NewRequest("GET", routes.ProgressLanding, nil), uuid.New()))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrCodeProgressUnavailable, body.Code)
	assert.Contains(t, string(body.Details), `"current_step":"payment"`)
	assert.NotContains(t, rec.Body.String(), `"route"`)
}

func TestAdvanceErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: %q", onboarding.ErrUnrecognizedStep, "x"), http.StatusBadRequest, utils.ErrCodeUnrecognizedStep},
		{onboarding.ErrStepNotReached, http.StatusConflict, utils.ErrCodeStepNotReached},
		{fmt.Errorf("%w: no plan selected", onboarding.ErrStepRequirementsUnmet), http.StatusConflict, utils.ErrCodeStepRequirements},
		{onboarding.ErrNoNextStep, http.StatusConflict, utils.ErrCodeConflict},
		{utils.ErrRowVersionConflict, http.StatusConflict, utils.ErrCodeRowVersionConflict},
		{errors.New("boom"), http.StatusInternalServerError, utils.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			o := &stubOrchestrator{err: tc.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", routes.ProgressAdvance, strings.NewReader(`{"step":" payment "}`))
			onboardingRouter(o).ServeHTTP(rec, authed(req, uuid.New()))

			assert.Equal(t, tc.status, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, onboarding.StepPayment, o.gotStep)
		})
	}
}

func TestAdvanceRequiresStepAndUser(t *testing.T) {
	o := &stubOrchestrator{}
	rec := httptest.NewRecorder()
	onboardingRouter(o).ServeHTTP(rec, authed(httptest.NewRequest("POST", routes.ProgressAdvance, strings.NewReader(`{}`)), uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	onboardingRouter(o).ServeHTTP(rec, httptest.NewRequest("POST", routes.ProgressAdvance, strings.NewReader(`{"step":"payment"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdvanceSuccess(t *testing.T) {
	o := &stubOrchestrator{transition: &onboarding.Transition{
		From:     onboarding.StepSelectPlan,
		Progress: onboarding.Progress{CurrentStep: onboarding.StepAddCompetitor},
		Route:    onboarding.DefaultRouteTable().ContactSales,
	}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", routes.ProgressAdvance, strings.NewReader(`{"step":"select_plan"}`))
	onboardingRouter(o).ServeHTTP(rec, authed(req, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	var tr onboarding.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, onboarding.Route("/onboarding/contact-sales"), tr.Route)
}

// ---------------------------------------------------------------------
// MSP
// ---------------------------------------------------------------------

type stubPeriods struct {
	MSPPeriods
	submitResp *dtos.MSPSubmitResponse
	submitErr  error
	updateErr  error
	gotField   msp.Field
	gotID      string
}

func (s *stubPeriods) SubmitDraft(context.Context, uuid.UUID) (*dtos.MSPSubmitResponse, error) {
	return s.submitResp, s.submitErr
}

func (s *stubPeriods) UpdatePeriod(_ context.Context, _ uuid.UUID, id string, field msp.Field, _ string) (*dtos.MSPDraftResponse, error) {
	s.gotID, s.gotField = id, field
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &dtos.MSPDraftResponse{}, nil
}

func mspRouter(p MSPPeriods) *mux.Router {
	c := NewMSPController(p)
	r := mux.NewRouter()
	r.HandleFunc(routes.MSPDraftSubmit, c.SubmitDraftHandler).Methods("POST")
	r.HandleFunc(routes.MSPDraftPeriodByID, c.UpdatePeriodHandler).Methods("PATCH")
	r.HandleFunc(routes.MSPBatch, c.ListEntriesHandler).Methods("GET")
	return r
}

func TestSubmitDraftPartialFailure(t *testing.T) {
	outcome := msp.Outcome{CreatedCount: 1, Errors: []string{"period 01/04/2025 - 30/04/2025: overlaps another saved period"}}
	p := &stubPeriods{
		submitResp: &dtos.MSPSubmitResponse{
			Outcome: outcome,
			Periods: []msp.Period{
				{ID: "a", Confirmed: true},
				{ID: "b", Error: "overlaps another saved period"},
			},
		},
		submitErr: outcome.Err(),
	}
	rec := httptest.NewRecorder()
	mspRouter(p).ServeHTTP(rec, authed(httptest.NewRequest("POST", routes.MSPDraftSubmit, nil), uuid.New()))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrCodePartialBatchFailure, body.Code)

	var details dtos.MSPSubmitResponse
	require.NoError(t, json.Unmarshal(body.Details, &details))
	require.Len(t, details.Periods, 2)
	assert.Equal(t, "overlaps another saved period", details.Periods[1].Error)
	assert.Equal(t, 1, details.Outcome.CreatedCount)
}

func TestSubmitDraftValidationError(t *testing.T) {
	p := &stubPeriods{submitErr: &msp.ValidationError{Index: 0, PeriodID: "a", Message: "end date is required"}}
	rec := httptest.NewRecorder()
	mspRouter(p).ServeHTTP(rec, authed(httptest.NewRequest("POST", routes.MSPDraftSubmit, nil), uuid.New()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "end date is required", body.Message)
	assert.Contains(t, string(body.Details), `"period_id":"a"`)
}

func TestUpdatePeriod(t *testing.T) {
	p := &stubPeriods{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/onboarding/msp/draft/periods/p-1", strings.NewReader(`{"field":"price","value":"120"}`))
	mspRouter(p).ServeHTTP(rec, authed(req, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-1", p.gotID)
	assert.Equal(t, msp.FieldPrice, p.gotField)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("PATCH", "/api/v1/onboarding/msp/draft/periods/p-1", strings.NewReader(`{"field":"currency","value":"EUR"}`))
	mspRouter(p).ServeHTTP(rec, authed(req, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p.updateErr = msp.ErrPeriodConfirmed
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("PATCH", "/api/v1/onboarding/msp/draft/periods/p-1", strings.NewReader(`{"field":"price","value":"1"}`))
	mspRouter(p).ServeHTTP(rec, authed(req, uuid.New()))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListEntriesNeedsProperty(t *testing.T) {
	rec := httptest.NewRecorder()
	mspRouter(&stubPeriods{}).ServeHTTP(rec, authed(httptest.NewRequest("GET", routes.MSPBatch, nil), uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------
// Stripe webhook
// ---------------------------------------------------------------------

type stubPayments struct {
	err error
}

func (s *stubPayments) CreateCheckout(context.Context, uuid.UUID) (*dtos.CheckoutResponse, error) {
	return &dtos.CheckoutResponse{SessionID: "cs_test", URL: "https://checkout.stripe.com/cs_test"}, s.err
}

func (s *stubPayments) HandleWebhook(context.Context, []byte, string) error { return s.err }

func TestStripeWebhook(t *testing.T) {
	cases := []struct {
		name   string
		sig    string
		err    error
		status int
	}{
		{"missing signature", "", nil, http.StatusBadRequest},
		{"bad signature", "t=1,v1=bad", fmt.Errorf("%w: mismatch", services.ErrInvalidWebhookSignature), http.StatusBadRequest},
		{"apply failure", "t=1,v1=ok", errors.New("db down"), http.StatusInternalServerError},
		{"ok", "t=1,v1=ok", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewPaymentController(&stubPayments{err: tc.err})
			req := httptest.NewRequest("POST", routes.StripeWebhook, strings.NewReader(`{"type":"checkout.session.completed"}`))
			if tc.sig != "" {
				req.Header.Set("Stripe-Signature", tc.sig)
			}
			rec := httptest.NewRecorder()
			c.StripeWebhookHandler(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
