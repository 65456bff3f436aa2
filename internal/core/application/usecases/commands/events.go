package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// eventLocation renders an optional point for an event payload.
// Returns nil so that absent locations serialize as JSON null.
func eventLocation(point *kernel.GeoPoint) map[string]float64 {
	if point == nil {
		return nil
	}
	return map[string]float64{"lat": point.Lat(), "lng": point.Lng()}
}
