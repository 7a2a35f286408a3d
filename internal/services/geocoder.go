package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

const geocodeTimeout = 3 * time.Second

// Geocoder resolves a postal address to coordinates. ok is false when the
// address has no match.
type Geocoder interface {
	Geocode(ctx context.Context, address, country string) (lat, lng float64, ok bool, err error)
}

type googleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder returns nil when apiKey is empty; hotels then keep the
// coordinates the client sent, if any.
func NewGoogleGeocoder(apiKey string) (Geocoder, error) {
	if apiKey == "" {
		utils.Logger.Info("[Geocoder] No GMaps key configured; address geocoding disabled")
		return nil, nil
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gmaps client: %w", err)
	}
	return &googleGeocoder{client: c}, nil
}

func (g *googleGeocoder) Geocode(ctx context.Context, address, country string) (float64, float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	req := &maps.GeocodingRequest{Address: address}
	if country != "" {
		req.Components = map[maps.Component]string{maps.ComponentCountry: strings.ToUpper(country)}
	}
	res, err := g.client.Geocode(ctx, req)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: geocode: %v", utils.ErrExternalServiceFailure, err)
	}
	if len(res) == 0 {
		return 0, 0, false, nil
	}
	loc := res[0].Geometry.Location
	return loc.Lat, loc.Lng, true, nil
}
