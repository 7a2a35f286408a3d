package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

// MSPEntryRepository stores minimum selling prices. Overlapping ranges of
// one property are rejected by an exclusion constraint; see
// IsExclusionViolation.
type MSPEntryRepository interface {
	Create(ctx context.Context, e *models.MSPEntry) error
	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.MSPEntry, error)
	CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error)
}

type mspEntryRepo struct {
	db DB
}

func NewMSPEntryRepository(db DB) MSPEntryRepository {
	return &mspEntryRepo{db: db}
}

func (r *mspEntryRepo) Create(ctx context.Context, e *models.MSPEntry) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO msp_entries (id, property_id, from_date, to_date, price, period_title)
		VALUES ($1, $2, $3, $4, $5::numeric, $6)
		RETURNING price::text, created_at
	`, e.ID, e.PropertyID, e.FromDate, e.ToDate, e.Price, e.PeriodTitle).Scan(&e.Price, &e.CreatedAt)
}

func (r *mspEntryRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.MSPEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, property_id, from_date, to_date, price::text, period_title, created_at
		FROM msp_entries
		WHERE property_id=$1
		ORDER BY from_date
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.MSPEntry
	for rows.Next() {
		var e models.MSPEntry
		if err := rows.Scan(
			&e.ID, &e.PropertyID, &e.FromDate, &e.ToDate, &e.Price, &e.PeriodTitle, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *mspEntryRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM msp_entries WHERE property_id=$1`, propertyID).Scan(&n)
	return n, err
}
