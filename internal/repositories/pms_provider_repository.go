package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
)

type PMSProviderRepository interface {
	Create(ctx context.Context, p *models.PMSProvider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PMSProvider, error)
	ListActive(ctx context.Context) ([]*models.PMSProvider, error)
}

type pmsProviderRepo struct {
	db DB
}

func NewPMSProviderRepository(db DB) PMSProviderRepository {
	return &pmsProviderRepo{db: db}
}

func (r *pmsProviderRepo) Create(ctx context.Context, p *models.PMSProvider) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pms_providers (id, name, active) VALUES ($1, $2, $3)`,
		p.ID, p.Name, p.Active,
	)
	return err
}

func (r *pmsProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PMSProvider, error) {
	var p models.PMSProvider
	err := r.db.QueryRow(ctx,
		`SELECT id, name, active FROM pms_providers WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pmsProviderRepo) ListActive(ctx context.Context) ([]*models.PMSProvider, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, active FROM pms_providers WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PMSProvider
	for rows.Next() {
		var p models.PMSProvider
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
