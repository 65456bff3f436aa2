package queries

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the orders a courier can still claim:
// status ready, no courier assigned, oldest first so that the longest
// waiting order is offered first.
type GetAvailableOrdersQuery struct { //nolint:recvcheck //using for validation
	principal access.Principal

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates an available-orders query.
// Only couriers may ask.
func NewGetAvailableOrdersQuery(principal access.Principal) (GetAvailableOrdersQuery, error) {
	q := GetAvailableOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setPrincipal(principal); err != nil {
		return GetAvailableOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableOrdersQueryIsNotConstructed if validation fails.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// Principal returns the requesting courier.
func (q GetAvailableOrdersQuery) Principal() access.Principal {
	return q.principal
}

func (q *GetAvailableOrdersQuery) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	if principal.Role() != access.RoleCourier {
		return errs.NewNotAuthorizedError("list available orders", "only couriers may browse available deliveries")
	}

	q.principal = principal
	return nil
}
