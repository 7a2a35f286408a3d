package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// errAlreadyPast aborts the update loop when there is nothing to write.
var errAlreadyPast = errors.New("already_past")

// ProgressStore persists onboarding progress and enforces that a step's
// work is done before the account leaves it. It also serves the PMS
// selection stored on the hotel.
type ProgressStore struct {
	progress   repositories.OnboardingProgressRepository
	accounts   repositories.AccountRepository
	properties repositories.PropertyRepository
	msp        repositories.MSPEntryRepository
	now        func() time.Time
}

func NewProgressStore(
	progress repositories.OnboardingProgressRepository,
	accounts repositories.AccountRepository,
	properties repositories.PropertyRepository,
	msp repositories.MSPEntryRepository,
) *ProgressStore {
	return &ProgressStore{
		progress:   progress,
		accounts:   accounts,
		properties: properties,
		msp:        msp,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProgressStore) Fetch(ctx context.Context, accountID string) (*onboarding.Progress, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", accountID, err)
	}
	rec, err := s.progress.GetByAccountID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	p := rec.ToProgress()
	return &p, nil
}

// Advance moves the account from -> to. Repeating a step the account is
// already past, or advancing a completed onboarding, returns the stored
// progress unchanged.
func (s *ProgressStore) Advance(ctx context.Context, accountID string, from, to onboarding.Step) (*onboarding.Progress, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", accountID, err)
	}

	var out onboarding.Progress
	err = s.progress.UpdateWithRetry(ctx, id, func(rec *models.OnboardingProgress) error {
		if rec.Completed {
			out = rec.ToProgress()
			return errAlreadyPast
		}

		current := rec.CurrentStep
		if !current.Valid() {
			utils.Logger.WithFields(logrus.Fields{
				"account_id":  accountID,
				"stored_step": string(current),
				"treated_as":  string(onboarding.StepHotelInformation),
			}).Warn("Stored onboarding step is not recognized")
			current = onboarding.StepHotelInformation
		}

		switch {
		case from.Index() < current.Index():
			out = rec.ToProgress()
			return errAlreadyPast
		case from.Index() > current.Index():
			return fmt.Errorf("%w: at %s, asked to leave %s", onboarding.ErrStepNotReached, current, from)
		}

		if err := s.checkRequirements(ctx, id, from); err != nil {
			return err
		}

		now := s.now()
		rec.CurrentStep = to
		if rec.StartedAt == nil {
			rec.StartedAt = &now
		}
		if to == onboarding.StepComplete {
			rec.Completed = true
			rec.CompletedAt = &now
		}
		out = rec.ToProgress()
		return nil
	})
	switch {
	case errors.Is(err, errAlreadyPast):
		return &out, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("%w: no onboarding progress for %s", utils.ErrNotFound, accountID)
	case err != nil:
		return nil, err
	}
	return &out, nil
}

// PMSSelection returns the selection stored on the account's hotel.
func (s *ProgressStore) PMSSelection(ctx context.Context, accountID string) (*onboarding.PMSSelection, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", accountID, err)
	}
	prop, err := s.properties.GetByAccountID(ctx, id)
	if err != nil || prop == nil {
		return nil, err
	}
	return prop.PMSSelection(), nil
}

func (s *ProgressStore) checkRequirements(ctx context.Context, accountID uuid.UUID, step onboarding.Step) error {
	unmet := func(reason string) error {
		return fmt.Errorf("%w: %s", onboarding.ErrStepRequirementsUnmet, reason)
	}

	switch step {
	case onboarding.StepVerifyEmail:
		acc, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if acc == nil || !acc.EmailVerified {
			return unmet("email is not verified")
		}
		return nil
	case onboarding.StepRegister, onboarding.StepAddCompetitor:
		return nil
	}

	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if prop == nil {
		return unmet("hotel information is missing")
	}

	switch step {
	case onboarding.StepPMSIntegration:
		if prop.PMSKind == nil {
			return unmet("no PMS selected")
		}
	case onboarding.StepSelectPlan:
		if prop.PlanCode == nil {
			return unmet("no plan selected")
		}
	case onboarding.StepPayment:
		if prop.PaymentStatus != models.PaymentStatusPaid && prop.PaymentStatus != models.PaymentStatusNotRequired {
			return unmet("payment is not completed")
		}
	case onboarding.StepMSP:
		n, err := s.msp.CountByPropertyID(ctx, prop.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return unmet("no minimum selling price saved")
		}
	}
	return nil
}
