package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a courier's attempt to take a ready order.
// Claiming is a one-way door: it succeeds for exactly one courier per order,
// no matter how many race for it.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a claim command.
func NewClaimOrderCommand(principal access.Principal, orderID kernel.UUID) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setOrderID(orderID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrClaimOrderCommandIsNotConstructed if validation fails.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// Principal returns the courier attempting the claim.
func (c ClaimOrderCommand) Principal() access.Principal {
	return c.principal
}

// OrderID returns the target order's identifier.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ClaimOrderCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
