package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrOptimizeRouteQueryIsNotConstructed = errors.New(
	"OptimizeRouteQuery must be created via NewOptimizeRouteQuery constructor",
)

// OptimizeRouteQuery asks for a visiting order over a courier's stops.
// Nothing is persisted: the result is derived, recomputed per request.
type OptimizeRouteQuery struct { //nolint:recvcheck //using for validation
	start kernel.GeoPoint
	stops []kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewOptimizeRouteQuery creates a route query. An empty stop list is valid
// and yields an empty route.
func NewOptimizeRouteQuery(start kernel.GeoPoint, stops []kernel.GeoPoint) (OptimizeRouteQuery, error) {
	q := OptimizeRouteQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setStart(start),
		q.setStops(stops),
	); err != nil {
		return OptimizeRouteQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrOptimizeRouteQueryIsNotConstructed if validation fails.
func (q OptimizeRouteQuery) Validate() error {
	return q.guard.Validate(ErrOptimizeRouteQueryIsNotConstructed)
}

// Start returns the courier's current position.
func (q OptimizeRouteQuery) Start() kernel.GeoPoint {
	return q.start
}

// Stops returns the stops to sequence.
func (q OptimizeRouteQuery) Stops() []kernel.GeoPoint {
	stops := make([]kernel.GeoPoint, len(q.stops))
	copy(stops, q.stops)
	return stops
}

func (q *OptimizeRouteQuery) setStart(start kernel.GeoPoint) error {
	if err := start.Validate(); err != nil {
		return err
	}

	q.start = start
	return nil
}

func (q *OptimizeRouteQuery) setStops(stops []kernel.GeoPoint) error {
	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return err
		}
	}

	q.stops = make([]kernel.GeoPoint, len(stops))
	copy(q.stops, stops)
	return nil
}

// RouteStopView is one leg of the planned route.
type RouteStopView struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	InputIndex int     `json:"inputIndex"`
	DistanceKm float64 `json:"distanceKm"`
}

// RouteView is the planned route as returned to the courier client.
type RouteView struct {
	Stops           []RouteStopView `json:"stops"`
	TotalDistanceKm float64         `json:"totalDistanceKm"`
}
