package geo

import (
	"slices"

	"github.com/sacavia/sacavia-push-server/domain"
)

type Result struct {
	domain.Location
	Distance float64 `json:"distance"`
}

// Nearby returns candidates within radius of center ordered by distance.
// Candidates without coordinates are skipped. limit <= 0 means no limit.
func Nearby(center domain.Point, candidates []domain.Location, radius float64, limit int, unit Unit) ([]Result, error) {
	if err := ValidatePoint(center); err != nil {
		return nil, err
	}
	if !(radius > 0) {
		return nil, ErrInvalidRadius
	}
	results := make([]Result, 0, len(candidates))
	for _, loc := range candidates {
		p, ok := loc.Coordinates.Point()
		if !ok {
			continue
		}
		d := Haversine(center, p, unit)
		if d <= radius {
			results = append(results, Result{Location: loc, Distance: d})
		}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
