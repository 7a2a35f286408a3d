package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateIfVersion(ctx context.Context, a *models.Account, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Account) error) error
}

type accountRepo struct {
	*versionedRepo[*models.Account]
	db DB
}

func NewAccountRepository(db DB) AccountRepository {
	r := &accountRepo{db: db}
	r.versionedRepo = newVersionedRepo(db, baseSelectAccount()+" WHERE id=$1", r.scanAccount)
	return r
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, strings.ToLower(a.Email), a.PasswordHash, a.FirstName, a.LastName, a.EmailVerified)
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.getByID(ctx, id.String())
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRow(ctx, baseSelectAccount()+" WHERE email=$1", strings.ToLower(email))
	return r.scanAccount(row)
}

func (r *accountRepo) UpdateIfVersion(ctx context.Context, a *models.Account, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE accounts SET
			email=$1, password_hash=$2, first_name=$3, last_name=$4,
			email_verified=$5, email_verified_at=$6,
			row_version=row_version+1, updated_at=NOW()
		WHERE id=$7 AND row_version=$8
	`, strings.ToLower(a.Email), a.PasswordHash, a.FirstName, a.LastName,
		a.EmailVerified, a.EmailVerifiedAt, a.ID, expected)
}

func (r *accountRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Account) error) error {
	return r.updateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectAccount() string {
	return `
	SELECT
		id, email, password_hash, first_name, last_name,
		email_verified, email_verified_at,
		row_version, created_at, updated_at
	FROM accounts`
}

func (r *accountRepo) scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.EmailVerified, &a.EmailVerifiedAt,
		&a.RowVersion, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
