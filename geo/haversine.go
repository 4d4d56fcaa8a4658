// Package geo computes great-circle distances and filters locations around a point.
package geo

import (
	"errors"
	"math"
	"strings"

	"github.com/sacavia/sacavia-push-server/domain"
)

var (
	ErrInvalidPoint  = errors.New("invalid coordinates")
	ErrInvalidRadius = errors.New("radius must be positive")
	ErrUnknownUnit   = errors.New("unknown distance unit")
)

type Unit string

const (
	Miles      Unit = "mi"
	Kilometers Unit = "km"
)

const (
	earthRadiusMi = 3958.8
	earthRadiusKm = 6371.0
)

func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", Miles:
		return Miles, nil
	case Kilometers:
		return Kilometers, nil
	}
	return "", ErrUnknownUnit
}

func (u Unit) earthRadius() float64 {
	if u == Kilometers {
		return earthRadiusKm
	}
	return earthRadiusMi
}

func ValidatePoint(p domain.Point) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) ||
		p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidPoint
	}
	return nil
}

// Haversine returns the great-circle distance between a and b.
func Haversine(a, b domain.Point, unit Unit) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return unit.earthRadius() * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
