package commands

import (
	"errors"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSendMessageCommandIsNotConstructed = errors.New(
	"SendMessageCommand must be created via NewSendMessageCommand constructor",
)

// SendMessageCommand represents one chat message from the order's customer
// or its assigned courier to the other participant. The recipient is never
// supplied by the client: it is resolved server-side from the order.
type SendMessageCommand struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID
	text      string
	tempID    string

	guard guard.ConstructorGuard
}

// NewSendMessageCommand creates a message command. The optional tempID is a
// client-side reconciliation token, echoed back in the published event and
// never stored.
func NewSendMessageCommand(
	principal access.Principal,
	orderID kernel.UUID,
	text string,
	tempID string,
) (SendMessageCommand, error) {
	cmd := SendMessageCommand{
		tempID: tempID,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setOrderID(orderID),
		cmd.setText(text),
	); err != nil {
		return SendMessageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSendMessageCommandIsNotConstructed if validation fails.
func (c SendMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendMessageCommandIsNotConstructed)
}

// Principal returns the authenticated sender.
func (c SendMessageCommand) Principal() access.Principal {
	return c.principal
}

// OrderID returns the order the message belongs to.
func (c SendMessageCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Text returns the message text.
func (c SendMessageCommand) Text() string {
	return c.text
}

// TempID returns the client's optional reconciliation token.
func (c SendMessageCommand) TempID() string {
	return c.tempID
}

func (c *SendMessageCommand) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *SendMessageCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SendMessageCommand) setText(text string) error {
	if text == "" {
		return errs.NewValueIsRequiredError("text")
	}
	if len([]rune(text)) > chat.MaxTextLength {
		return errs.NewValueIsOutOfRangeError("text", len([]rune(text)), 1, chat.MaxTextLength)
	}

	c.text = text
	return nil
}
