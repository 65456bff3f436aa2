package queries

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// OptimizeRouteQueryHandler sequences a courier's stops with the route
// planner domain service. No storage is involved.
type OptimizeRouteQueryHandler struct {
	planner services.RoutePlanner
}

// NewOptimizeRouteQueryHandler creates a handler for route requests.
func NewOptimizeRouteQueryHandler(planner services.RoutePlanner) OptimizeRouteQueryHandler {
	return OptimizeRouteQueryHandler{planner: planner}
}

// Handle executes the query.
func (h OptimizeRouteQueryHandler) Handle(_ context.Context, query OptimizeRouteQuery) (RouteView, error) {
	if err := query.Validate(); err != nil {
		return RouteView{}, err
	}

	route, err := h.planner.Plan(query.Start(), query.Stops())
	if err != nil {
		return RouteView{}, err
	}

	view := RouteView{
		Stops:           make([]RouteStopView, 0, len(route.Legs)),
		TotalDistanceKm: route.TotalDistanceKm,
	}
	for _, leg := range route.Legs {
		view.Stops = append(view.Stops, RouteStopView{
			Lat:        leg.Stop.Lat(),
			Lng:        leg.Stop.Lng(),
			InputIndex: leg.InputIndex,
			DistanceKm: leg.DistanceKm,
		})
	}

	return view, nil
}
