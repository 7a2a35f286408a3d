package utils

import (
	"math"

	"github.com/bradfitz/latlong"
	"github.com/umahmood/haversine"
)

// DistanceKm is the great-circle distance between two coordinates,
// rounded to 0.1 km.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lng1},
		haversine.Coord{Lat: lat2, Lon: lng2},
	)
	return math.Round(km*10) / 10
}

// TimeZoneFor resolves the IANA zone of a coordinate. Falls back to
// fallback when the lookup has no answer (open sea, bad input).
func TimeZoneFor(lat, lng float64, fallback string) string {
	if name := latlong.LookupZoneName(lat, lng); name != "" {
		return name
	}
	return fallback
}
