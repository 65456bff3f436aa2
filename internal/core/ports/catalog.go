package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Product is the catalog's view of a sellable item, as needed at checkout.
type Product struct {
	ID         kernel.UUID
	MerchantID kernel.UUID
	Name       string
	Price      float64
	Stock      int
	IsActive   bool
}

// Catalog gives the order flow access to the product catalog.
//
// Stock adjustments are deliberately not part of the order transaction:
// createOrder decrements stock as a separate step after the order is
// committed, and cancelOrder restores it the same way. An adjustment that
// fails after the order mutation is logged, not rolled back.
type Catalog interface {
	// FindActiveProduct returns the product if it exists and is active.
	// Inactive or unknown products yield ObjectNotFoundError.
	FindActiveProduct(ctx context.Context, id kernel.UUID) (Product, error)

	// AdjustStock changes the product's stock level by delta (negative to
	// reserve, positive to restore). A decrement below zero is rejected
	// with a ConflictError and leaves the stock untouched.
	AdjustStock(ctx context.Context, id kernel.UUID, delta int) error
}
