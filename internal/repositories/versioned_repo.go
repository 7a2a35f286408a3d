package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

const (
	defaultUpdateAttempts = 3
	retryPause            = 15 * time.Millisecond
)

// EntityWithVersion is what optimistic locking needs from a row.
type EntityWithVersion interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

type UpdateIfVersionFunc[T EntityWithVersion] func(ctx context.Context, entity T, expectedVersion int64) (pgconn.CommandTag, error)

type GetByIDFunc[T EntityWithVersion] func(ctx context.Context, id string) (T, error)

/*
versionedRepo holds the SELECT-by-id statement and scanner of one entity
type and gives concrete repositories:

  - getByID(ctx, id)           nil (no error) when the row is missing
  - updateWithRetry(ctx, ...)  read, mutate, conditional update loop
*/
type versionedRepo[T EntityWithVersion] struct {
	db         DB
	selectByID string
	scan       func(row pgx.Row) (T, error)
}

func newVersionedRepo[T EntityWithVersion](db DB, selectByID string, scan func(pgx.Row) (T, error)) *versionedRepo[T] {
	return &versionedRepo[T]{db: db, selectByID: selectByID, scan: scan}
}

func (b *versionedRepo[T]) getByID(ctx context.Context, id string) (T, error) {
	return b.scan(b.db.QueryRow(ctx, b.selectByID, id))
}

func (b *versionedRepo[T]) updateWithRetry(ctx context.Context, id string, mutate func(T) error, update UpdateIfVersionFunc[T]) error {
	return WithRetry(ctx, defaultUpdateAttempts, id, b.getByID, update, mutate)
}

// WithRetry runs a read-mutate-update loop. The update only lands when the
// stored row_version still matches what was read; otherwise the row is read
// again. A mutate error aborts the loop and is returned as is.
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	attempts int,
	id string,
	getByID GetByIDFunc[T],
	update UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	var zero T
	for attempt := 1; attempt <= attempts; attempt++ {
		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}
		if current == zero {
			return pgx.ErrNoRows
		}

		version := current.GetRowVersion()
		if err := mutate(current); err != nil {
			return err
		}

		tag, err := update(ctx, current, version)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(version + 1)
			return nil
		}

		utils.Logger.WithField("id", id).Debugf("row_version moved under us (attempt %d/%d)", attempt, attempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryPause * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: too much contention updating %q", utils.ErrRowVersionConflict, id)
}
