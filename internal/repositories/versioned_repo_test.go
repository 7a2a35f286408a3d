package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// versionedStore mimics a row guarded by row_version; bumps simulates
// concurrent writers landing between read and update.
type versionedStore struct {
	row     models.Account
	exists  bool
	bumps   int
	updates int
}

func (s *versionedStore) get(context.Context, string) (*models.Account, error) {
	if !s.exists {
		return nil, nil
	}
	cp := s.row
	return &cp, nil
}

func (s *versionedStore) update(_ context.Context, a *models.Account, expected int64) (pgconn.CommandTag, error) {
	s.updates++
	if s.bumps > 0 {
		s.bumps--
		s.row.RowVersion++
	}
	if s.row.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	s.row = *a
	s.row.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	s := &versionedStore{exists: true, row: models.Account{FirstName: "Ana"}}
	var last *models.Account

	err := WithRetry(context.Background(), 3, "id", s.get, s.update, func(a *models.Account) error {
		a.FirstName = "Ana María"
		last = a
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", s.row.FirstName)
	assert.EqualValues(t, 1, s.row.RowVersion)
	assert.EqualValues(t, 1, last.RowVersion)
	assert.Equal(t, 1, s.updates)
}

func TestWithRetryRereadsOnConflict(t *testing.T) {
	s := &versionedStore{exists: true, bumps: 2}
	calls := 0

	err := WithRetry(context.Background(), 3, "id", s.get, s.update, func(a *models.Account) error {
		calls++
		a.EmailVerified = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, s.row.EmailVerified)
}

func TestWithRetryGivesUp(t *testing.T) {
	s := &versionedStore{exists: true, bumps: 10}
	err := WithRetry(context.Background(), 2, "id", s.get, s.update, func(*models.Account) error { return nil })
	assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
	assert.Equal(t, 2, s.updates)
}

func TestWithRetryMissingRow(t *testing.T) {
	s := &versionedStore{}
	err := WithRetry(context.Background(), 3, "id", s.get, s.update, func(*models.Account) error { return nil })
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestWithRetryMutateErrorAborts(t *testing.T) {
	s := &versionedStore{exists: true}
	stop := errors.New("stop")
	err := WithRetry(context.Background(), 3, "id", s.get, s.update, func(*models.Account) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Zero(t, s.updates)
}

func TestWithRetryHonoursContext(t *testing.T) {
	s := &versionedStore{exists: true, bumps: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, 5, "id", s.get, s.update, func(*models.Account) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPgErrorClassifiers(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23P01"}))
	assert.True(t, IsExclusionViolation(&pgconn.PgError{Code: "23P01"}))
	assert.False(t, IsExclusionViolation(errors.New("23P01")))
}
