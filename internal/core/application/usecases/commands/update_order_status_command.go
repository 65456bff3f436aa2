package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand represents a request to advance an order along
// its status graph: the merchant's confirm/prepare/ready steps and the
// courier's transit/delivered steps. Pickup happens through claim, and
// cancellation through its own command.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID
	next      order.Status
	location  *kernel.GeoPoint
	note      string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status-update command.
// The location and note are optional annotations for the tracking entry.
func NewUpdateOrderStatusCommand(
	principal access.Principal,
	orderID kernel.UUID,
	next order.Status,
	location *kernel.GeoPoint,
	note string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setOrderID(orderID),
		cmd.setNext(next),
		cmd.setLocation(location),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// Principal returns the authenticated actor requesting the change.
func (c UpdateOrderStatusCommand) Principal() access.Principal {
	return c.principal
}

// OrderID returns the target order's identifier.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Next returns the requested status.
func (c UpdateOrderStatusCommand) Next() order.Status {
	return c.next
}

// Location returns the optional location for the tracking entry.
func (c UpdateOrderStatusCommand) Location() *kernel.GeoPoint {
	return c.location
}

// Note returns the optional note for the tracking entry.
func (c UpdateOrderStatusCommand) Note() string {
	return c.note
}

func (c *UpdateOrderStatusCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setNext(next order.Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	c.next = next
	return nil
}

func (c *UpdateOrderStatusCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
