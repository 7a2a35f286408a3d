package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

type EmailVerificationRepository interface {
	CreateCode(ctx context.Context, accountID uuid.UUID, email, code string, expiresAt time.Time) error
	GetLatest(ctx context.Context, accountID uuid.UUID) (*models.EmailVerificationCode, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	DeleteCode(ctx context.Context, id uuid.UUID) error
	// CleanupExpired returns the number of rows removed.
	CleanupExpired(ctx context.Context) (int64, error)
}

type emailVerificationRepo struct {
	db DB
}

func NewEmailVerificationRepository(db DB) EmailVerificationRepository {
	return &emailVerificationRepo{db: db}
}

func (r *emailVerificationRepo) CreateCode(ctx context.Context, accountID uuid.UUID, email, code string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO email_verification_codes
			(id, account_id, email, verification_code, expires_at, attempts)
		VALUES ($1, $2, $3, $4, $5, 0)
	`, uuid.New(), accountID, email, code, expiresAt)
	return err
}

func (r *emailVerificationRepo) GetLatest(ctx context.Context, accountID uuid.UUID) (*models.EmailVerificationCode, error) {
	var rec models.EmailVerificationCode
	err := r.db.QueryRow(ctx, `
		SELECT id, account_id, email, verification_code, expires_at, attempts,
		       verified, verified_at, created_at
		FROM email_verification_codes
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, accountID).Scan(
		&rec.ID, &rec.AccountID, &rec.Email, &rec.VerificationCode, &rec.ExpiresAt,
		&rec.Attempts, &rec.Verified, &rec.VerifiedAt, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *emailVerificationRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE email_verification_codes SET attempts = attempts + 1 WHERE id = $1`, id)
	return err
}

func (r *emailVerificationRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE email_verification_codes
		SET verified = TRUE, verified_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *emailVerificationRepo) DeleteCode(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM email_verification_codes WHERE id = $1`, id)
	return err
}

func (r *emailVerificationRepo) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM email_verification_codes
		WHERE
		  (verified = FALSE AND expires_at < NOW())
		  OR
		  (verified = TRUE AND verified_at + INTERVAL '1 day' < NOW())
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
