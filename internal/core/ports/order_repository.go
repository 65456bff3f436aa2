// Package ports defines the contracts between the application core and
// infrastructure adapters: persistence, the realtime event bus, and the
// external collaborators (catalog, notifications, geo services).
// These interfaces enable dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage, including its
	// initial tracking history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate and appends
	// any tracking events recorded since it was loaded. A failed history
	// append fails the whole update.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier,
	// including its full tracking history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Claim atomically assigns the courier to the order: in a single
	// conditional write it sets the courier and moves the status to
	// picked_up only if the order is still ready and unassigned. If
	// another courier won the race the order is left untouched and a
	// ConflictError is returned; an unknown id yields ObjectNotFoundError.
	// A read-then-write sequence is not an acceptable implementation.
	//
	// On success the updated aggregate is returned with the pickup
	// tracking event appended.
	Claim(ctx context.Context, id kernel.UUID, courier kernel.UUID, at time.Time) (*order.Order, error)
}
