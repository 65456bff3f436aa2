package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists the principal's own orders: a customer sees the
// orders it placed, a merchant the orders placed with it, a courier the
// orders it delivers. Newest first.
type GetOrdersQuery struct { //nolint:recvcheck //using for validation
	principal access.Principal

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a role-scoped order list query.
func NewGetOrdersQuery(principal access.Principal) (GetOrdersQuery, error) {
	q := GetOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setPrincipal(principal); err != nil {
		return GetOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersQueryIsNotConstructed if validation fails.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Principal returns the requesting principal.
func (q GetOrdersQuery) Principal() access.Principal {
	return q.principal
}

func (q *GetOrdersQuery) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	q.principal = principal
	return nil
}

// OrderSummaryView is the list-page projection of an order: enough to
// render a row, without line items or tracking history.
type OrderSummaryView struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	CourierID *string   `json:"courierId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
