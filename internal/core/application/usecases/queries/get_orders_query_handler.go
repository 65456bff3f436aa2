package queries

import (
	"context"

	"fulfillment/internal/core/application/access"

	"gorm.io/gorm"
)

// GetOrdersQueryHandler lists orders scoped to the principal's role.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for role-scoped order lists.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the query. The scope column follows the role: customers
// match on customer_id, merchants on merchant_id, couriers on courier_id.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderSummaryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	scopeColumn := "customer_id"
	switch query.Principal().Role() {
	case access.RoleMerchant:
		scopeColumn = "merchant_id"
	case access.RoleCourier:
		scopeColumn = "courier_id"
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT *
		FROM orders
		WHERE `+scopeColumn+` = ?
		ORDER BY created_at DESC
	`, query.Principal().ID().Bytes()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return toSummaries(rows), nil
}

func toSummaries(rows []orderRow) []OrderSummaryView {
	summaries := make([]OrderSummaryView, 0, len(rows))
	for _, row := range rows {
		summary := OrderSummaryView{
			ID:        row.ID.String(),
			Number:    row.Number,
			Status:    row.Status,
			Total:     row.Total,
			Street:    row.Street,
			City:      row.City,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if row.CourierID != nil {
			courier := row.CourierID.String()
			summary.CourierID = &courier
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
