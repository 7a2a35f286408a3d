package services

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/middleware"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type RegistrationService interface {
	Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.RegisterResponse, error)
}

type registrationService struct {
	accounts     repositories.AccountRepository
	progress     repositories.OnboardingProgressRepository
	verification EmailVerificationService
	wizard       Wizard
	signingKey   *rsa.PrivateKey
}

func NewRegistrationService(
	accounts repositories.AccountRepository,
	progress repositories.OnboardingProgressRepository,
	verification EmailVerificationService,
	wizard Wizard,
	signingKey *rsa.PrivateKey,
) RegistrationService {
	return &registrationService{
		accounts:     accounts,
		progress:     progress,
		verification: verification,
		wizard:       wizard,
		signingKey:   signingKey,
	}
}

// Register creates the account with its progress already past register.
// A failure to send the first code is logged only; the code can be
// requested again from the verify-email screen.
func (s *registrationService) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	emailTaken := utils.NewAppError(http.StatusConflict, utils.ErrCodeEmailExists, "An account with this email already exists", utils.ErrEmailExists)

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, emailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	acc := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, emailTaken
		}
		return nil, err
	}

	now := time.Now().UTC()
	rec := &models.OnboardingProgress{
		AccountID:   acc.ID,
		CurrentStep: onboarding.StepVerifyEmail,
		StartedAt:   &now,
	}
	if err := s.progress.Create(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.verification.RequestCode(ctx, acc.ID); err != nil {
		utils.Logger.WithError(err).WithField("account_id", acc.ID).Warn("Could not send first verification code")
	}

	token, err := middleware.IssueAccessToken(s.signingKey, acc.ID.String(), constants.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	p := rec.ToProgress()
	utils.Logger.WithField("account_id", acc.ID).Info("Account registered")
	return &dtos.RegisterResponse{
		AccountID:   acc.ID.String(),
		AccessToken: token,
		Progress:    p,
		Route:       s.wizard.Routes().ResolveLandingStep(p),
	}, nil
}
