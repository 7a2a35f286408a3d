package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

type OnboardingProgressRepository interface {
	Create(ctx context.Context, p *models.OnboardingProgress) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.OnboardingProgress, error)
	UpdateIfVersion(ctx context.Context, p *models.OnboardingProgress, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, accountID uuid.UUID, mutate func(*models.OnboardingProgress) error) error
}

type onboardingProgressRepo struct {
	*versionedRepo[*models.OnboardingProgress]
	db DB
}

func NewOnboardingProgressRepository(db DB) OnboardingProgressRepository {
	r := &onboardingProgressRepo{db: db}
	r.versionedRepo = newVersionedRepo(db, baseSelectProgress()+" WHERE account_id=$1", r.scanProgress)
	return r
}

func (r *onboardingProgressRepo) Create(ctx context.Context, p *models.OnboardingProgress) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO onboarding_progress (account_id, current_step, completed, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.AccountID, string(p.CurrentStep), p.Completed, p.StartedAt, p.CompletedAt)
	return err
}

func (r *onboardingProgressRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.OnboardingProgress, error) {
	return r.getByID(ctx, accountID.String())
}

func (r *onboardingProgressRepo) UpdateIfVersion(ctx context.Context, p *models.OnboardingProgress, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE onboarding_progress SET
			current_step=$1, completed=$2, started_at=$3, completed_at=$4,
			row_version=row_version+1, updated_at=NOW()
		WHERE account_id=$5 AND row_version=$6
	`, string(p.CurrentStep), p.Completed, p.StartedAt, p.CompletedAt, p.AccountID, expected)
}

func (r *onboardingProgressRepo) UpdateWithRetry(ctx context.Context, accountID uuid.UUID, mutate func(*models.OnboardingProgress) error) error {
	return r.updateWithRetry(ctx, accountID.String(), mutate, r.UpdateIfVersion)
}

func baseSelectProgress() string {
	return `
	SELECT
		account_id, current_step, completed, started_at, completed_at,
		row_version, created_at, updated_at
	FROM onboarding_progress`
}

func (r *onboardingProgressRepo) scanProgress(row pgx.Row) (*models.OnboardingProgress, error) {
	var p models.OnboardingProgress
	var step string
	var started, completed pgtype.Timestamptz

	err := row.Scan(
		&p.AccountID, &step, &p.Completed, &started, &completed,
		&p.RowVersion, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Unknown values are kept as read; the landing resolver deals with them.
	p.CurrentStep = onboarding.Step(step)
	if started.Status == pgtype.Present {
		t := started.Time
		p.StartedAt = &t
	}
	if completed.Status == pgtype.Present {
		t := completed.Time
		p.CompletedAt = &t
	}
	return &p, nil
}
