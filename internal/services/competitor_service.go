package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type CompetitorService interface {
	List(ctx context.Context, accountID uuid.UUID) (*dtos.CompetitorsResponse, error)
	Add(ctx context.Context, accountID uuid.UUID, req dtos.CreateCompetitorRequest) (*models.Competitor, error)
	Remove(ctx context.Context, accountID, competitorID uuid.UUID) error
}

type competitorService struct {
	properties  repositories.PropertyRepository
	competitors repositories.CompetitorRepository
}

func NewCompetitorService(properties repositories.PropertyRepository, competitors repositories.CompetitorRepository) CompetitorService {
	return &competitorService{properties: properties, competitors: competitors}
}

// maxFor is the competitor allowance of the hotel's plan.
func maxFor(prop *models.Property) int {
	if prop.PlanCode != nil {
		if plan, ok := constants.PlanByCode(*prop.PlanCode); ok {
			return plan.MaxCompetitors
		}
	}
	return constants.MaxCompetitors
}

func (s *competitorService) hotel(ctx context.Context, accountID uuid.UUID) (*models.Property, error) {
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, hotelNotFound()
	}
	return prop, nil
}

func (s *competitorService) List(ctx context.Context, accountID uuid.UUID) (*dtos.CompetitorsResponse, error) {
	prop, err := s.hotel(ctx, accountID)
	if err != nil {
		return nil, err
	}
	list, err := s.competitors.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Competitor{}
	}
	return &dtos.CompetitorsResponse{Competitors: list, Max: maxFor(prop)}, nil
}

// Add stores a competitor. Its distance from the hotel is kept when both
// sides have coordinates.
func (s *competitorService) Add(ctx context.Context, accountID uuid.UUID, req dtos.CreateCompetitorRequest) (*models.Competitor, error) {
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "latitude and longitude must be given together", nil)
	}
	prop, err := s.hotel(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limit := maxFor(prop)
	n, err := s.competitors.CountByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	if n >= limit {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeLimitReached,
			fmt.Sprintf("A hotel can track at most %d competitors", limit), utils.ErrLimitReached)
	}

	c := &models.Competitor{
		ID:         uuid.New(),
		PropertyID: prop.ID,
		Name:       strings.TrimSpace(req.Name),
		BookingURL: req.BookingURL,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if prop.HasCoordinates() && c.Latitude != nil {
		d := utils.DistanceKm(*prop.Latitude, *prop.Longitude, *c.Latitude, *c.Longitude)
		c.DistanceKm = &d
	}

	if err := s.competitors.Create(ctx, c); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "This competitor is already on the list", err)
		}
		return nil, err
	}
	return c, nil
}

func (s *competitorService) Remove(ctx context.Context, accountID, competitorID uuid.UUID) error {
	prop, err := s.hotel(ctx, accountID)
	if err != nil {
		return err
	}
	ok, err := s.competitors.Delete(ctx, prop.ID, competitorID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Competitor not found", utils.ErrNotFound)
	}
	return nil
}
