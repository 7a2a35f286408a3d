package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// PMS systems with a supported connector. IDs are fixed so the catalogue
// is stable across environments.
var pmsCatalogue = []models.PMSProvider{
	{ID: uuid.MustParse("6f1c3a52-8a0e-4c8b-9c55-000000000001"), Name: "Cloudbeds", Active: true},
	{ID: uuid.MustParse("6f1c3a52-8a0e-4c8b-9c55-000000000002"), Name: "Mews", Active: true},
	{ID: uuid.MustParse("6f1c3a52-8a0e-4c8b-9c55-000000000003"), Name: "Opera Cloud", Active: true},
	{ID: uuid.MustParse("6f1c3a52-8a0e-4c8b-9c55-000000000004"), Name: "Apaleo", Active: true},
	{ID: uuid.MustParse("6f1c3a52-8a0e-4c8b-9c55-000000000005"), Name: "RoomRaccoon", Active: true},
}

// SeedPMSProviders inserts the connector catalogue. Existing rows are kept.
func SeedPMSProviders(repo repositories.PMSProviderRepository) error {
	ctx := context.Background()
	for i := range pmsCatalogue {
		p := pmsCatalogue[i]
		if err := repo.Create(ctx, &p); err != nil {
			if repositories.IsUniqueViolation(err) {
				utils.Logger.Debugf("PMS provider %s already present; skipping.", p.Name)
				continue
			}
			return fmt.Errorf("insert pms provider %s: %w", p.Name, err)
		}
		utils.Logger.Infof("Seeded PMS provider %s", p.Name)
	}
	return nil
}

// SeedTestAccount creates a verified demo account parked at
// hotel_information (test/demo purposes only).
func SeedTestAccount(accounts repositories.AccountRepository, progress repositories.OnboardingProgressRepository) error {
	ctx := context.Background()
	id := uuid.MustParse("0b7e4c1e-5f7a-4f57-8d3c-5eed00000001")

	hash, err := utils.HashPassword("demo-password")
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	now := time.Now().UTC()
	a := &models.Account{
		ID:              id,
		Email:           "demo" + utils.TestEmailSuffix,
		PasswordHash:    hash,
		FirstName:       "Demo",
		LastName:        "Hotelier",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := accounts.Create(ctx, a); err != nil {
		if repositories.IsUniqueViolation(err) {
			utils.Logger.Infof("Demo account already present (id=%s); skipping.", id)
			return nil
		}
		return fmt.Errorf("insert demo account: %w", err)
	}

	p := &models.OnboardingProgress{
		AccountID:   id,
		CurrentStep: onboarding.StepHotelInformation,
		StartedAt:   &now,
	}
	if err := progress.Create(ctx, p); err != nil && !repositories.IsUniqueViolation(err) {
		return fmt.Errorf("insert demo progress: %w", err)
	}
	utils.Logger.Infof("Created demo account id=%s", id)
	return nil
}
