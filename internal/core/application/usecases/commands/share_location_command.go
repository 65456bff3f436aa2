package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrShareLocationCommandIsNotConstructed = errors.New(
	"ShareLocationCommand must be created via NewShareLocationCommand constructor",
)

// ShareLocationCommand represents one live location ping from the order's
// assigned courier. Pings are never persisted anywhere: a subscriber that
// misses one has missed it for good.
type ShareLocationCommand struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID
	point     kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewShareLocationCommand creates a location-share command.
func NewShareLocationCommand(
	principal access.Principal,
	orderID kernel.UUID,
	point kernel.GeoPoint,
) (ShareLocationCommand, error) {
	cmd := ShareLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setOrderID(orderID),
		cmd.setPoint(point),
	); err != nil {
		return ShareLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrShareLocationCommandIsNotConstructed if validation fails.
func (c ShareLocationCommand) Validate() error {
	return c.guard.Validate(ErrShareLocationCommandIsNotConstructed)
}

// Principal returns the courier sharing the location.
func (c ShareLocationCommand) Principal() access.Principal {
	return c.principal
}

// OrderID returns the order the ping belongs to.
func (c ShareLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Point returns the shared coordinate.
func (c ShareLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *ShareLocationCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *ShareLocationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ShareLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}
