package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Property, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Property, error)
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
}

type propertyRepo struct {
	*versionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	r.versionedRepo = newVersionedRepo(db, baseSelectProperty()+" WHERE id=$1", r.scanProperty)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO properties (
			id, account_id, hotel_name, booking_url, hotel_type, number_of_rooms,
			address, city, postal_code, country, latitude, longitude, timezone,
			payment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14
		)
	`,
		p.ID, p.AccountID, p.HotelName, p.BookingURL, p.HotelType, p.NumberOfRooms,
		p.Address, p.City, p.PostalCode, p.Country, p.Latitude, p.Longitude, p.TimeZone,
		string(p.PaymentStatus),
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.getByID(ctx, id.String())
}

func (r *propertyRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Property, error) {
	row := r.db.QueryRow(ctx, baseSelectProperty()+" WHERE account_id=$1", accountID)
	return r.scanProperty(row)
}

func (r *propertyRepo) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Property, error) {
	row := r.db.QueryRow(ctx, baseSelectProperty()+" WHERE stripe_checkout_session_id=$1 LIMIT 1", sessionID)
	return r.scanProperty(row)
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	var kind *string
	if p.PMSKind != nil {
		k := string(*p.PMSKind)
		kind = &k
	}
	return r.db.Exec(ctx, `
		UPDATE properties SET
			hotel_name=$1, booking_url=$2, hotel_type=$3, number_of_rooms=$4,
			address=$5, city=$6, postal_code=$7, country=$8,
			latitude=$9, longitude=$10, timezone=$11,
			pms_kind=$12, pms_provider_id=$13, pms_custom_name=$14,
			plan_code=$15, payment_status=$16, stripe_checkout_session_id=$17,
			row_version=row_version+1, updated_at=NOW()
		WHERE id=$18 AND row_version=$19
	`,
		p.HotelName, p.BookingURL, p.HotelType, p.NumberOfRooms,
		p.Address, p.City, p.PostalCode, p.Country,
		p.Latitude, p.Longitude, p.TimeZone,
		kind, p.PMSProviderID, p.PMSCustomName,
		p.PlanCode, string(p.PaymentStatus), p.StripeCheckoutSessionID,
		p.ID, expected,
	)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.updateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectProperty() string {
	return `
	SELECT
		id, account_id, hotel_name, booking_url, hotel_type, number_of_rooms,
		address, city, postal_code, country, latitude, longitude, timezone,
		pms_kind, pms_provider_id, pms_custom_name,
		plan_code, payment_status, stripe_checkout_session_id,
		row_version, created_at, updated_at
	FROM properties`
}

func (r *propertyRepo) scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var kind *string
	var status string

	err := row.Scan(
		&p.ID, &p.AccountID, &p.HotelName, &p.BookingURL, &p.HotelType, &p.NumberOfRooms,
		&p.Address, &p.City, &p.PostalCode, &p.Country, &p.Latitude, &p.Longitude, &p.TimeZone,
		&kind, &p.PMSProviderID, &p.PMSCustomName,
		&p.PlanCode, &status, &p.StripeCheckoutSessionID,
		&p.RowVersion, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if kind != nil {
		k := onboarding.PMSKind(*kind)
		p.PMSKind = &k
	}
	p.PaymentStatus = models.PaymentStatusType(status)
	return &p, nil
}
