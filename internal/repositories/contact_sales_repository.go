package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

type ContactSalesRepository interface {
	Create(ctx context.Context, req *models.ContactSalesRequest) error
	MarkNotified(ctx context.Context, id uuid.UUID) error
	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ContactSalesRequest, error)
}

type contactSalesRepo struct {
	db DB
}

func NewContactSalesRepository(db DB) ContactSalesRepository {
	return &contactSalesRepo{db: db}
}

func (r *contactSalesRepo) Create(ctx context.Context, req *models.ContactSalesRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contact_sales_requests (id, account_id, property_id, pms_kind, pms_name, plan_code, notified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, req.ID, req.AccountID, req.PropertyID, string(req.PMSKind), req.PMSName, req.PlanCode, req.Notified)
	return err
}

func (r *contactSalesRepo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE contact_sales_requests SET notified=TRUE WHERE id=$1`, id)
	return err
}

func (r *contactSalesRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ContactSalesRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, property_id, pms_kind, pms_name, plan_code, notified, created_at
		FROM contact_sales_requests
		WHERE property_id=$1
		ORDER BY created_at DESC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ContactSalesRequest
	for rows.Next() {
		var req models.ContactSalesRequest
		var kind string
		if err := rows.Scan(
			&req.ID, &req.AccountID, &req.PropertyID, &kind, &req.PMSName,
			&req.PlanCode, &req.Notified, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		req.PMSKind = onboarding.PMSKind(kind)
		out = append(out, &req)
	}
	return out, rows.Err()
}
