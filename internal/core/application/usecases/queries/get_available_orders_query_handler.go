package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler lists claimable orders for couriers.
//
// The predicate matches the claim precondition exactly (status ready,
// courier unset), so an order returned here is claimable at read time; it
// may of course be gone by the time the courier acts, which the claim's
// conflict answer covers. Never returns an order with a courier set.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for the available list.
// Requires a GORM database connection for query execution.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the query, oldest created first.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]OrderSummaryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT *
		FROM orders
		WHERE status = ?
		  AND courier_id IS NULL
		ORDER BY created_at ASC
	`, order.Ready.String()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return toSummaries(rows), nil
}
