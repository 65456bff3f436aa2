package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeclineOrderViewCommandIsNotConstructed = errors.New(
	"DeclineOrderViewCommand must be created via NewDeclineOrderViewCommand constructor",
)

// DeclineOrderViewCommand represents a courier passing on an available
// order. An unassigned order has no per-courier state to record against, so
// this command is deliberately non-durable: the decline lives only in the
// requesting client's session and in the audit log.
type DeclineOrderViewCommand struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineOrderViewCommand creates a decline command.
func NewDeclineOrderViewCommand(principal access.Principal, orderID kernel.UUID) (DeclineOrderViewCommand, error) {
	cmd := DeclineOrderViewCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setOrderID(orderID),
	); err != nil {
		return DeclineOrderViewCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeclineOrderViewCommandIsNotConstructed if validation fails.
func (c DeclineOrderViewCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOrderViewCommandIsNotConstructed)
}

// Principal returns the courier declining the order.
func (c DeclineOrderViewCommand) Principal() access.Principal {
	return c.principal
}

// OrderID returns the declined order's identifier.
func (c DeclineOrderViewCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *DeclineOrderViewCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *DeclineOrderViewCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
