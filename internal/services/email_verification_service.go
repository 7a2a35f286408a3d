package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type EmailVerificationService interface {
	// RequestCode replaces any pending code and emails a new one.
	RequestCode(ctx context.Context, accountID uuid.UUID) error
	// ConfirmCode marks the email verified and advances verify_email.
	ConfirmCode(ctx context.Context, accountID uuid.UUID, code string) (*onboarding.Transition, error)
}

type emailVerificationService struct {
	cfg      *config.Config
	accounts repositories.AccountRepository
	codes    repositories.EmailVerificationRepository
	mailer   Mailer
	wizard   Wizard
	now      func() time.Time
}

func NewEmailVerificationService(
	cfg *config.Config,
	accounts repositories.AccountRepository,
	codes repositories.EmailVerificationRepository,
	mailer Mailer,
	wizard Wizard,
) EmailVerificationService {
	return &emailVerificationService{
		cfg:      cfg,
		accounts: accounts,
		codes:    codes,
		mailer:   mailer,
		wizard:   wizard,
		now:      time.Now,
	}
}

func (s *emailVerificationService) RequestCode(ctx context.Context, accountID uuid.UUID) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return utils.ErrNotFound
	}
	if acc.EmailVerified {
		utils.Logger.WithField("account_id", accountID).Debug("Email already verified; no code sent")
		return nil
	}

	if existing, _ := s.codes.GetLatest(ctx, accountID); existing != nil && !existing.Verified {
		_ = s.codes.DeleteCode(ctx, existing.ID)
	}

	expiresAt := s.now().Add(s.cfg.VerificationCodeTTL)
	if strings.HasSuffix(acc.Email, utils.TestEmailSuffix) {
		return s.codes.CreateCode(ctx, accountID, acc.Email, utils.TestEmailCode, expiresAt)
	}

	code, err := utils.RandomNumericString(s.cfg.VerificationCodeLength)
	if err != nil {
		return err
	}
	if err := s.codes.CreateCode(ctx, accountID, acc.Email, code, expiresAt); err != nil {
		return err
	}

	plain := fmt.Sprintf("Your %s verification code is %s", s.cfg.OrganizationName, code)
	html := fmt.Sprintf(verificationEmailHTML, code, int(s.cfg.VerificationCodeTTL.Minutes()), s.now().Year())
	return s.mailer.SendEmail(ctx, acc.Email, constants.EmailSubjectVerificationCode, plain, html)
}

func (s *emailVerificationService) ConfirmCode(ctx context.Context, accountID uuid.UUID, code string) (*onboarding.Transition, error) {
	invalid := utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidCode, "Invalid or expired verification code", utils.ErrInvalidCode)

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, utils.ErrNotFound
	}

	if !acc.EmailVerified {
		rec, err := s.codes.GetLatest(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if rec == nil || rec.Verified || s.now().After(rec.ExpiresAt) {
			return nil, invalid
		}
		if rec.Attempts >= constants.MaxVerificationAttempts {
			_ = s.codes.DeleteCode(ctx, rec.ID)
			return nil, invalid
		}
		if rec.VerificationCode != strings.TrimSpace(code) {
			_ = s.codes.IncrementAttempts(ctx, rec.ID)
			return nil, invalid
		}

		if err := s.codes.MarkVerified(ctx, rec.ID); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		if err := s.accounts.UpdateWithRetry(ctx, accountID, func(a *models.Account) error {
			a.EmailVerified = true
			a.EmailVerifiedAt = &now
			return nil
		}); err != nil {
			return nil, err
		}
		utils.Logger.WithField("account_id", accountID).Info("Email verified")
	}

	return s.wizard.Advance(ctx, accountID.String(), onboarding.StepVerifyEmail)
}
