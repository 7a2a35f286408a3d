package services

import (
	"context"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// VerificationCleanupService purges expired email verification codes.
type VerificationCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type verificationCleanupService struct {
	codes repositories.EmailVerificationRepository
}

func NewVerificationCleanupService(codes repositories.EmailVerificationRepository) VerificationCleanupService {
	return &verificationCleanupService{codes: codes}
}

func (s *verificationCleanupService) CleanupDaily(ctx context.Context) error {
	n, err := s.codes.CleanupExpired(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup email_verification_codes")
		return err
	}
	utils.Logger.Infof("Removed %d expired email verification codes", n)
	return nil
}
