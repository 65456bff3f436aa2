package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one line item is required")
)

// OrderItemInput is one requested line at checkout. Name and unit price are
// never taken from the client: they are snapshotted from the catalog.
type OrderItemInput struct {
	ProductID kernel.UUID
	Quantity  int
}

// AddressInput is the delivery destination as submitted at checkout.
// Coordinates are optional; both must be present to be used.
type AddressInput struct {
	Street     string
	City       string
	PostalCode string
	Lat        *float64
	Lng        *float64
}

// CreateOrderCommand represents a customer's checkout request.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(principal, items, address, order.PaymentCash, "ring twice")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s placed", created.Number())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	principal     access.Principal
	items         []OrderItemInput
	address       AddressInput
	paymentMethod order.PaymentMethod
	instructions  string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates the principal, that at least one item with a positive quantity
// is requested, and that the payment method is known. Catalog-dependent
// checks (existence, active flag, stock) happen in the handler.
func NewCreateOrderCommand(
	principal access.Principal,
	items []OrderItemInput,
	address AddressInput,
	paymentMethod order.PaymentMethod,
	instructions string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		address:      address,
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setItems(items),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Principal returns the authenticated customer placing the order.
func (c CreateOrderCommand) Principal() access.Principal {
	return c.principal
}

// Items returns the requested lines.
func (c CreateOrderCommand) Items() []OrderItemInput {
	items := make([]OrderItemInput, len(c.items))
	copy(items, c.items)
	return items
}

// Address returns the submitted delivery destination.
func (c CreateOrderCommand) Address() AddressInput {
	return c.address
}

// PaymentMethod returns the chosen payment method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// Instructions returns the optional free-text delivery instructions.
func (c CreateOrderCommand) Instructions() string {
	return c.instructions
}

func (c *CreateOrderCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}

	c.items = make([]OrderItemInput, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
