package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

func newTestPaymentService(accounts *mockAccountRepo, props *mockPropertyRepo) *PaymentService {
	cfg := &config.Config{
		AppUrl:         "https://app.viverestays.test",
		StripePriceIDs: map[string]string{"pro": "price_pro"},
	}
	return NewPaymentService(cfg, accounts, props, &fakeWizard{})
}

func TestCreateCheckoutStoresPendingSession(t *testing.T) {
	accountID := uuid.New()
	prop := &models.Property{ID: uuid.New(), AccountID: accountID, PlanCode: strPtr("pro"), PaymentStatus: models.PaymentStatusUnpaid}

	props := &mockPropertyRepo{}
	props.On("GetByAccountID", mock.Anything, accountID).Return(prop, nil)
	props.On("UpdateWithRetry", mock.Anything, prop.ID, mock.Anything).Return(prop, nil)
	accounts := &mockAccountRepo{}
	accounts.On("GetByID", mock.Anything, accountID).Return(&models.Account{ID: accountID, Email: "owner@casavivere.es"}, nil)

	svc := newTestPaymentService(accounts, props)
	var sent *stripe.CheckoutSessionParams
	svc.NewCheckoutSession = func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		sent = p
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
	}

	resp, err := svc.CreateCheckout(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", resp.URL)

	require.NotNil(t, sent)
	require.Len(t, sent.LineItems, 1)
	assert.Equal(t, "price_pro", *sent.LineItems[0].Price)
	assert.Equal(t, "owner@casavivere.es", *sent.CustomerEmail)
	assert.Equal(t, prop.ID.String(), sent.Metadata[constants.CheckoutMetadataPropertyIDKey])
	assert.Equal(t, "https://app.viverestays.test"+constants.StripeCheckoutSuccessURL, *sent.SuccessURL)

	assert.Equal(t, models.PaymentStatusPending, prop.PaymentStatus)
	require.NotNil(t, prop.StripeCheckoutSessionID)
	assert.Equal(t, "cs_test_1", *prop.StripeCheckoutSessionID)
}

func TestCreateCheckoutRejections(t *testing.T) {
	cases := []struct {
		name   string
		status models.PaymentStatusType
		plan   *string
		want   int
		is     error
	}{
		{"contact sales", models.PaymentStatusNotRequired, strPtr("pro"), http.StatusConflict, nil},
		{"already paid", models.PaymentStatusPaid, strPtr("pro"), http.StatusConflict, nil},
		{"no plan", models.PaymentStatusUnpaid, nil, http.StatusConflict, onboarding.ErrStepRequirementsUnmet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			accountID := uuid.New()
			prop := &models.Property{ID: uuid.New(), AccountID: accountID, PlanCode: tc.plan, PaymentStatus: tc.status}
			props := &mockPropertyRepo{}
			props.On("GetByAccountID", mock.Anything, accountID).Return(prop, nil)

			svc := newTestPaymentService(&mockAccountRepo{}, props)
			svc.NewCheckoutSession = func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				t.Fatal("no session should be created")
				return nil, nil
			}

			_, err := svc.CreateCheckout(context.Background(), accountID)
			var appErr *utils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.want, appErr.StatusCode)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			assert.Equal(t, tc.status, prop.PaymentStatus)
			props.AssertNotCalled(t, "UpdateWithRetry", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCheckoutStripeFailure(t *testing.T) {
	accountID := uuid.New()
	prop := &models.Property{ID: uuid.New(), AccountID: accountID, PlanCode: strPtr("pro"), PaymentStatus: models.PaymentStatusUnpaid}
	props := &mockPropertyRepo{}
	props.On("GetByAccountID", mock.Anything, accountID).Return(prop, nil)
	accounts := &mockAccountRepo{}
	accounts.On("GetByID", mock.Anything, accountID).Return(&models.Account{ID: accountID, Email: "a@b.es"}, nil)

	svc := newTestPaymentService(accounts, props)
	svc.NewCheckoutSession = func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("card_declined")
	}

	_, err := svc.CreateCheckout(context.Background(), accountID)
	assert.ErrorIs(t, err, utils.ErrExternalServiceFailure)
	assert.Equal(t, models.PaymentStatusUnpaid, prop.PaymentStatus)
	assert.Nil(t, prop.StripeCheckoutSessionID)
}
