package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// ErrInvalidWebhookSignature is returned for payloads that fail Stripe's
// signature check.
var ErrInvalidWebhookSignature = errors.New("invalid_webhook_signature")

type PaymentService struct {
	cfg        *config.Config
	accounts   repositories.AccountRepository
	properties repositories.PropertyRepository
	wizard     Wizard

	// NewCheckoutSession is session.New outside tests.
	NewCheckoutSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewPaymentService(
	cfg *config.Config,
	accounts repositories.AccountRepository,
	properties repositories.PropertyRepository,
	wizard Wizard,
) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{
		cfg:                cfg,
		accounts:           accounts,
		properties:         properties,
		wizard:             wizard,
		NewCheckoutSession: session.New,
	}
}

// CreateCheckout opens a Stripe Checkout subscription for the selected plan.
func (s *PaymentService) CreateCheckout(ctx context.Context, accountID uuid.UUID) (*dtos.CheckoutResponse, error) {
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, hotelNotFound()
	}
	switch prop.PaymentStatus {
	case models.PaymentStatusPaid:
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "The plan is already paid", nil)
	case models.PaymentStatusNotRequired:
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "No online payment is needed for this hotel", nil)
	}
	if prop.PlanCode == nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeStepRequirements, "Select a plan first", onboarding.ErrStepRequirementsUnmet)
	}
	priceID, ok := s.cfg.PriceIDFor(*prop.PlanCode)
	if !ok {
		return nil, fmt.Errorf("no Stripe price configured for plan %q", *prop.PlanCode)
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, utils.ErrNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.cfg.AppUrl + constants.StripeCheckoutSuccessURL),
		CancelURL:         stripe.String(s.cfg.AppUrl + constants.StripeCheckoutCancelURL),
		ClientReferenceID: stripe.String(accountID.String()),
		CustomerEmail:     stripe.String(acc.Email),
		Metadata: map[string]string{
			constants.CheckoutMetadataPropertyIDKey: prop.ID.String(),
			constants.CheckoutMetadataAccountIDKey:  accountID.String(),
			constants.CheckoutMetadataPlanKey:       *prop.PlanCode,
		},
	}
	cs, err := s.NewCheckoutSession(params)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to create Stripe checkout session")
		return nil, fmt.Errorf("%w: could not create checkout session: %v", utils.ErrExternalServiceFailure, err)
	}

	sessionID := cs.ID
	if err := s.properties.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		p.StripeCheckoutSessionID = &sessionID
		p.PaymentStatus = models.PaymentStatusPending
		return nil
	}); err != nil {
		return nil, err
	}
	return &dtos.CheckoutResponse{SessionID: cs.ID, URL: cs.URL}, nil
}

// HandleWebhook verifies and applies one Stripe event. Unknown events are
// acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return fmt.Errorf("parse checkout session in %s: %w", event.Type, err)
		}
		return s.checkoutCompleted(ctx, &cs)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return fmt.Errorf("parse checkout session in %s: %w", event.Type, err)
		}
		return s.checkoutAbandoned(ctx, &cs)
	default:
		utils.Logger.Infof("Unhandled Stripe event type: %s", event.Type)
	}
	return nil
}

func (s *PaymentService) propertyForSession(ctx context.Context, cs *stripe.CheckoutSession) (*models.Property, error) {
	prop, err := s.properties.GetByCheckoutSessionID(ctx, cs.ID)
	if err != nil || prop != nil {
		return prop, err
	}
	if raw := cs.Metadata[constants.CheckoutMetadataPropertyIDKey]; raw != "" {
		if id, perr := uuid.Parse(raw); perr == nil {
			return s.properties.GetByID(ctx, id)
		}
	}
	return nil, nil
}

func (s *PaymentService) checkoutCompleted(ctx context.Context, cs *stripe.CheckoutSession) error {
	log := utils.Logger.WithField("checkout_session", cs.ID)
	if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		log.Infof("Checkout completed with payment_status=%s; waiting for async payment", cs.PaymentStatus)
		return nil
	}

	prop, err := s.propertyForSession(ctx, cs)
	if err != nil {
		return err
	}
	if prop == nil {
		log.Warn("No hotel for completed checkout session; ignoring")
		return nil
	}

	if err := s.properties.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		p.PaymentStatus = models.PaymentStatusPaid
		return nil
	}); err != nil {
		return err
	}
	log.WithField("property_id", prop.ID).Info("Hotel plan paid")

	_, err = s.wizard.Advance(ctx, prop.AccountID.String(), onboarding.StepPayment)
	if errors.Is(err, onboarding.ErrStepNotReached) {
		// paid ahead of time; the wizard will pass payment when it gets there
		log.WithFields(logrus.Fields{"account_id": prop.AccountID}).Info("Payment recorded before the payment step")
		return nil
	}
	return err
}

func (s *PaymentService) checkoutAbandoned(ctx context.Context, cs *stripe.CheckoutSession) error {
	prop, err := s.propertyForSession(ctx, cs)
	if err != nil || prop == nil {
		return err
	}
	return s.properties.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		if p.PaymentStatus == models.PaymentStatusPending {
			p.PaymentStatus = models.PaymentStatusUnpaid
		}
		return nil
	})
}
