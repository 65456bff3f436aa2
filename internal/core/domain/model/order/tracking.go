package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// ErrTrackingEventIsNotConstructed is returned when attempting to use an
// improperly initialized TrackingEvent.
var ErrTrackingEventIsNotConstructed = errors.New(
	"TrackingEvent must be created via NewTrackingEvent constructor")

// TrackingEvent is one immutable entry of an order's append-only tracking
// history: the status entered, the server timestamp of the transition, and
// optionally the reporter's location and a free-text note.
//
// Sequence numbers are assigned by the aggregate and are strictly increasing
// per order; timestamps never go backward within one order's history.
type TrackingEvent struct { //nolint:recvcheck //using for validation
	sequence int
	status   Status
	at       time.Time
	location *kernel.GeoPoint
	note     string

	guard guard.ConstructorGuard
}

// NewTrackingEvent creates a validated tracking event.
// Intended for the Order aggregate (which assigns sequence numbers) and for
// repositories rehydrating persisted history.
func NewTrackingEvent(
	sequence int,
	status Status,
	at time.Time,
	location *kernel.GeoPoint,
	note string,
) (TrackingEvent, error) {
	if err := status.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return TrackingEvent{}, err
		}
	}

	return TrackingEvent{
		sequence: sequence,
		status:   status,
		at:       at,
		location: location,
		note:     note,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the event was created through the constructor.
func (e TrackingEvent) Validate() error {
	return e.guard.Validate(ErrTrackingEventIsNotConstructed)
}

// Sequence returns the 1-based position of this event in the order's history.
func (e TrackingEvent) Sequence() int {
	return e.sequence
}

// Status returns the status the order entered with this event.
func (e TrackingEvent) Status() Status {
	return e.status
}

// At returns the server timestamp of the transition.
func (e TrackingEvent) At() time.Time {
	return e.at
}

// Location returns the optional reporter location, nil if none was supplied.
func (e TrackingEvent) Location() *kernel.GeoPoint {
	return e.location
}

// Note returns the optional free-text note.
func (e TrackingEvent) Note() string {
	return e.note
}
