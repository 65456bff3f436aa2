package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStaleOrdersQueryHandler reads orders that have overstayed their state.
type GetStaleOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetStaleOrdersQueryHandler creates a handler for the watchdog query.
// Requires a GORM database connection for query execution.
func NewGetStaleOrdersQueryHandler(db *gorm.DB) GetStaleOrdersQueryHandler {
	return GetStaleOrdersQueryHandler{db: db}
}

// Handle executes the query: ready orders without a courier older than the
// ready age, and in-transit orders older than the transit age, measured
// against their last update.
func (h GetStaleOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStaleOrdersQuery,
) ([]StaleOrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	type staleRow struct {
		ID        uuid.UUID
		Number    string
		Status    string
		UpdatedAt time.Time
	}

	var rows []staleRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT id, number, status, updated_at
		FROM orders
		WHERE (status = ? AND courier_id IS NULL AND updated_at < ?)
		   OR (status = ? AND updated_at < ?)
		ORDER BY updated_at ASC
	`,
		order.Ready.String(), now.Add(-query.ReadyAge()),
		order.InTransit.String(), now.Add(-query.TransitAge()),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]StaleOrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, StaleOrderView{
			ID:        row.ID.String(),
			Number:    row.Number,
			Status:    row.Status,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return views, nil
}
