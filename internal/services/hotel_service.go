package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type HotelService interface {
	GetHotel(ctx context.Context, accountID uuid.UUID) (*models.Property, error)
	SaveHotel(ctx context.Context, accountID uuid.UUID, req dtos.HotelRequest) (*models.Property, error)
	ListPMSProviders(ctx context.Context) ([]*models.PMSProvider, error)
	SavePMSSelection(ctx context.Context, accountID uuid.UUID, req dtos.PMSSelectionRequest) (*models.Property, error)
}

type hotelService struct {
	properties repositories.PropertyRepository
	providers  repositories.PMSProviderRepository
	geocoder   Geocoder
	wizard     Wizard
}

// NewHotelService accepts a nil geocoder.
func NewHotelService(properties repositories.PropertyRepository, providers repositories.PMSProviderRepository, geocoder Geocoder, wizard Wizard) HotelService {
	return &hotelService{properties: properties, providers: providers, geocoder: geocoder, wizard: wizard}
}

func hotelNotFound() error {
	return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Hotel information has not been saved yet", utils.ErrNotFound)
}

func (s *hotelService) GetHotel(ctx context.Context, accountID uuid.UUID) (*models.Property, error) {
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, hotelNotFound()
	}
	return prop, nil
}

// SaveHotel creates the account's hotel or overwrites its details. The
// time zone follows the coordinates, geocoded from the address when the
// client sent none.
func (s *hotelService) SaveHotel(ctx context.Context, accountID uuid.UUID, req dtos.HotelRequest) (*models.Property, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "latitude and longitude must be given together", nil)
	}
	if req.Latitude == nil {
		req.Latitude, req.Longitude = s.geocode(ctx, req)
	}

	apply := func(p *models.Property) {
		p.HotelName = strings.TrimSpace(req.HotelName)
		p.BookingURL = req.BookingURL
		p.HotelType = req.HotelType
		p.NumberOfRooms = req.NumberOfRooms
		p.Address = strings.TrimSpace(req.Address)
		p.City = strings.TrimSpace(req.City)
		p.PostalCode = strings.TrimSpace(req.PostalCode)
		p.Country = strings.ToUpper(req.Country)
		p.Latitude = req.Latitude
		p.Longitude = req.Longitude
		p.TimeZone = constants.DefaultHotelTimeZone
		if p.HasCoordinates() {
			p.TimeZone = utils.TimeZoneFor(*p.Latitude, *p.Longitude, constants.DefaultHotelTimeZone)
		}
	}

	existing, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		prop := &models.Property{
			ID:            uuid.New(),
			AccountID:     accountID,
			PaymentStatus: models.PaymentStatusUnpaid,
		}
		apply(prop)
		if err := s.properties.Create(ctx, prop); err != nil {
			return nil, err
		}
		utils.Logger.WithField("account_id", accountID).Infof("Hotel %s created (tz=%s)", prop.ID, prop.TimeZone)
		return s.properties.GetByID(ctx, prop.ID)
	}

	if err := s.properties.UpdateWithRetry(ctx, existing.ID, func(p *models.Property) error {
		apply(p)
		return nil
	}); err != nil {
		return nil, err
	}
	return s.properties.GetByID(ctx, existing.ID)
}

func (s *hotelService) ListPMSProviders(ctx context.Context) ([]*models.PMSProvider, error) {
	list, err := s.providers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.PMSProvider{}
	}
	return list, nil
}

// SavePMSSelection stores the selection on the hotel and hands it to the
// wizard, which needs it to branch after select_plan.
func (s *hotelService) SavePMSSelection(ctx context.Context, accountID uuid.UUID, req dtos.PMSSelectionRequest) (*models.Property, error) {
	invalid := func(msg string) error {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, msg, nil)
	}

	kind := onboarding.PMSKind(req.Kind)
	sel := onboarding.PMSSelection{Kind: kind}
	var providerID *uuid.UUID
	var customName *string

	switch kind {
	case onboarding.PMSKindStandard:
		if req.PMSID == nil {
			return nil, invalid("pms_id is required for a standard PMS")
		}
		id, err := uuid.Parse(*req.PMSID)
		if err != nil {
			return nil, invalid("pms_id is not a valid id")
		}
		provider, err := s.providers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if provider == nil || !provider.Active {
			return nil, invalid("unknown PMS provider")
		}
		providerID = &id
		sel.PMSID = id.String()
		sel.Name = provider.Name
	case onboarding.PMSKindCustom:
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			return nil, invalid("name is required for a custom PMS")
		}
		name := strings.TrimSpace(*req.Name)
		customName = &name
		sel.Name = name
	case onboarding.PMSKindNone:
	default:
		return nil, invalid("unknown PMS kind")
	}

	prop, err := s.GetHotel(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.properties.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		p.PMSKind = &kind
		p.PMSProviderID = providerID
		p.PMSCustomName = customName
		return nil
	}); err != nil {
		return nil, err
	}

	s.wizard.RememberPMSSelection(accountID.String(), sel)
	return s.properties.GetByID(ctx, prop.ID)
}

// geocode is best effort: a failed lookup leaves the hotel without
// coordinates.
func (s *hotelService) geocode(ctx context.Context, req dtos.HotelRequest) (*float64, *float64) {
	if s.geocoder == nil {
		return nil, nil
	}
	address := strings.Join([]string{
		strings.TrimSpace(req.Address),
		strings.TrimSpace(req.PostalCode + " " + req.City),
	}, ", ")
	lat, lng, ok, err := s.geocoder.Geocode(ctx, address, req.Country)
	if err != nil {
		utils.Logger.WithError(err).WithField("address", address).Warn("Hotel geocoding failed")
		return nil, nil
	}
	if !ok {
		utils.Logger.WithField("address", address).Info("Hotel address has no geocoding match")
		return nil, nil
	}
	return &lat, &lng
}
