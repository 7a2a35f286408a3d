package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

type CompetitorRepository interface {
	Create(ctx context.Context, c *models.Competitor) error
	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Competitor, error)
	CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error)
	// Delete reports whether a row of that property was removed.
	Delete(ctx context.Context, propertyID, id uuid.UUID) (bool, error)
}

type competitorRepo struct {
	db DB
}

func NewCompetitorRepository(db DB) CompetitorRepository {
	return &competitorRepo{db: db}
}

func (r *competitorRepo) Create(ctx context.Context, c *models.Competitor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO competitors (id, property_id, name, booking_url, latitude, longitude, distance_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.PropertyID, c.Name, c.BookingURL, c.Latitude, c.Longitude, c.DistanceKm)
	return err
}

func (r *competitorRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Competitor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, property_id, name, booking_url, latitude, longitude, distance_km, created_at
		FROM competitors
		WHERE property_id=$1
		ORDER BY created_at
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Competitor
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *competitorRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM competitors WHERE property_id=$1`, propertyID).Scan(&n)
	return n, err
}

func (r *competitorRepo) Delete(ctx context.Context, propertyID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM competitors WHERE id=$1 AND property_id=$2`, id, propertyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanCompetitor(row pgx.Row) (*models.Competitor, error) {
	var c models.Competitor
	if err := row.Scan(
		&c.ID, &c.PropertyID, &c.Name, &c.BookingURL,
		&c.Latitude, &c.Longitude, &c.DistanceKm, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
