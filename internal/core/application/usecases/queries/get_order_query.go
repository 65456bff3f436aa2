// Package queries contains read-only operations over the storage read side.
// Query handlers bypass the domain aggregates and repositories: they read
// with SQL directly and return plain response structs shaped for transport.
// Authorization is part of the query itself, as a scope predicate.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with items and tracking history.
// Only the order's participants (customer, merchant, assigned courier) can
// see it; for everyone else the order does not exist.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(principal access.Principal, orderID kernel.UUID) (GetOrderQuery, error) {
	q := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setPrincipal(principal),
		q.setOrderID(orderID),
	); err != nil {
		return GetOrderQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// Principal returns the requesting principal.
func (q GetOrderQuery) Principal() access.Principal {
	return q.principal
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderQuery) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	q.principal = principal
	return nil
}

func (q *GetOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// OrderItemView is one line of an order as seen by clients.
type OrderItemView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// TrackingEventView is one entry of the order's tracking history.
type TrackingEventView struct {
	Sequence int       `json:"sequence"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
	Lat      *float64  `json:"lat,omitempty"`
	Lng      *float64  `json:"lng,omitempty"`
	Note     string    `json:"note,omitempty"`
}

// OrderView is the full client-facing projection of an order.
type OrderView struct {
	ID                 string              `json:"id"`
	Number             string              `json:"number"`
	CustomerID         string              `json:"customerId"`
	MerchantID         string              `json:"merchantId"`
	CourierID          *string             `json:"courierId,omitempty"`
	Status             string              `json:"status"`
	PaymentMethod      string              `json:"paymentMethod"`
	PaymentStatus      string              `json:"paymentStatus"`
	Subtotal           float64             `json:"subtotal"`
	DeliveryFee        float64             `json:"deliveryFee"`
	Tax                float64             `json:"tax"`
	Discount           float64             `json:"discount"`
	Total              float64             `json:"total"`
	Street             string              `json:"street"`
	City               string              `json:"city"`
	PostalCode         string              `json:"postalCode,omitempty"`
	Lat                *float64            `json:"lat,omitempty"`
	Lng                *float64            `json:"lng,omitempty"`
	Instructions       string              `json:"instructions,omitempty"`
	CancellationReason string              `json:"cancellationReason,omitempty"`
	Items              []OrderItemView     `json:"items"`
	History            []TrackingEventView `json:"history"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	DeliveredAt        *time.Time          `json:"deliveredAt,omitempty"`
}
