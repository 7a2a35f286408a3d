package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/services"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// Payments is the *services.PaymentService surface used here.
type Payments interface {
	CreateCheckout(ctx context.Context, accountID uuid.UUID) (*dtos.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type PaymentController struct {
	payments Payments
}

func NewPaymentController(payments Payments) *PaymentController {
	return &PaymentController{payments: payments}
}

// POST /api/v1/onboarding/payment/checkout
func (c *PaymentController) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	resp, err := c.payments.CreateCheckout(r.Context(), id)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// POST /api/v1/onboarding/stripe/webhook
func (c *PaymentController) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.Logger.Error("Missing Stripe-Signature header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to read webhook body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := c.payments.HandleWebhook(r.Context(), payload, sigHeader); err != nil {
		if errors.Is(err, services.ErrInvalidWebhookSignature) {
			utils.Logger.WithError(err).Error("Stripe webhook signature verification failed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// 5xx makes Stripe retry the delivery
		utils.Logger.WithError(err).Error("Failed to apply Stripe webhook")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
