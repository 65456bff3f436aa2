package services

import (
	"math"

	"fulfillment/internal/core/domain/model/kernel"
)

// RouteLeg is one stop of a planned route together with the distance
// travelled to reach it from the previous position.
type RouteLeg struct {
	// Stop is the visited point.
	Stop kernel.GeoPoint

	// InputIndex is the stop's position in the caller-supplied list,
	// so callers can map legs back to their own stop records.
	InputIndex int

	// DistanceKm is the great-circle distance from the previous position.
	DistanceKm float64
}

// Route is the result of planning: the visiting order plus the cumulative
// distance of the whole traversal.
type Route struct {
	Legs            []RouteLeg
	TotalDistanceKm float64
}

// RoutePlanner sequences a courier's delivery stops with a greedy
// nearest-neighbor heuristic over haversine distances.
//
// The heuristic is explicitly not an optimal-tour solver: a courier carries a
// single-digit number of concurrent stops, where greedy selection is cheap,
// deterministic and good enough. Ties on distance are broken by the stop's
// position in the input list, which makes the output stable for equal inputs.
//
// Example:
//
//	planner := services.NewRoutePlanner()
//	route, err := planner.Plan(start, stops)
//	if err != nil {
//	    return err
//	}
//	for _, leg := range route.Legs {
//	    fmt.Printf("next: %s (+%.1f km)\n", leg.Stop, leg.DistanceKm)
//	}
type RoutePlanner struct{}

// NewRoutePlanner creates a new RoutePlanner instance.
func NewRoutePlanner() RoutePlanner {
	return RoutePlanner{}
}

// Plan orders the given stops by repeatedly visiting the nearest remaining
// one, starting from start.
//
// Returns:
//   - an empty route with zero distance for an empty stop list
//   - otherwise a route visiting every stop exactly once, with the
//     accumulated haversine distance
//   - an error if start or any stop is not a properly constructed GeoPoint
func (p RoutePlanner) Plan(start kernel.GeoPoint, stops []kernel.GeoPoint) (Route, error) {
	if err := start.Validate(); err != nil {
		return Route{}, err
	}
	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return Route{}, err
		}
	}

	type candidate struct {
		point      kernel.GeoPoint
		inputIndex int
	}

	pool := make([]candidate, len(stops))
	for i, stop := range stops {
		pool[i] = candidate{point: stop, inputIndex: i}
	}

	route := Route{Legs: make([]RouteLeg, 0, len(stops))}
	current := start

	for len(pool) > 0 {
		best := -1
		bestDistance := math.MaxFloat64

		for i, c := range pool {
			d, err := current.DistanceTo(c.point)
			if err != nil {
				return Route{}, err
			}
			// Strict less-than keeps the first-encountered stop on ties.
			if d < bestDistance {
				bestDistance = d
				best = i
			}
		}

		chosen := pool[best]
		pool = append(pool[:best], pool[best+1:]...)

		route.Legs = append(route.Legs, RouteLeg{
			Stop:       chosen.point,
			InputIndex: chosen.inputIndex,
			DistanceKm: bestDistance,
		})
		route.TotalDistanceKm += bestDistance
		current = chosen.point
	}

	return route, nil
}
