// Package chat provides the domain model for per-order conversations between
// a customer and the assigned courier. Messages are immutable once created;
// this core never edits or deletes them.
package chat

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MaxTextLength is the maximum accepted message length in characters.
const MaxTextLength = 2000

// ErrMessageIsNotConstructed is returned when a Message instance was not
// created through the NewMessage or RestoreMessage factory methods.
var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage or RestoreMessage constructor")

// Message is one immutable chat message inside an order's conversation.
// The recipient is always resolved server-side as "the other participant"
// of the order - clients never choose it. The optional tempID is a
// client-supplied token echoed back for optimistic-UI reconciliation only;
// it is not a server-enforced uniqueness key.
type Message struct {
	id        kernel.UUID
	orderID   kernel.UUID
	sender    kernel.UUID
	recipient kernel.UUID
	text      string
	tempID    string
	sentAt    time.Time

	isConstructed bool
}

// NewMessage creates a validated message with a server-side timestamp.
func NewMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	sender kernel.UUID,
	recipient kernel.UUID,
	text string,
	tempID string,
	sentAt time.Time,
) (*Message, error) {
	m := &Message{
		tempID:        tempID,
		sentAt:        sentAt,
		isConstructed: true,
	}

	if err := errors.Join(
		m.setIDs(id, orderID, sender, recipient),
		m.setText(text),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreMessage reconstructs a message from persistence.
// The tempID is intentionally not restored: it only matters on the
// connection that sent the message.
func RestoreMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	sender kernel.UUID,
	recipient kernel.UUID,
	text string,
	sentAt time.Time,
) (*Message, error) {
	return NewMessage(id, orderID, sender, recipient, text, "", sentAt)
}

// Validate ensures the message was created through a constructor.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID {
	return m.id
}

// OrderID returns the order this message belongs to.
func (m *Message) OrderID() kernel.UUID {
	return m.orderID
}

// Sender returns the sending participant's identifier.
func (m *Message) Sender() kernel.UUID {
	return m.sender
}

// Recipient returns the other participant's identifier, resolved server-side.
func (m *Message) Recipient() kernel.UUID {
	return m.recipient
}

// Text returns the message body.
func (m *Message) Text() string {
	return m.text
}

// TempID returns the client-supplied reconciliation token, empty when absent
// or when the message was restored from persistence.
func (m *Message) TempID() string {
	return m.tempID
}

// SentAt returns the server timestamp assigned on creation.
func (m *Message) SentAt() time.Time {
	return m.sentAt
}

func (m *Message) setIDs(id, orderID, sender, recipient kernel.UUID) error {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		sender.Validate(),
		recipient.Validate(),
	); err != nil {
		return err
	}
	if sender.IsEqual(recipient) {
		return errs.NewValueIsInvalidErrorWithCause("recipient",
			errors.New("sender and recipient must differ"))
	}

	m.id = id
	m.orderID = orderID
	m.sender = sender
	m.recipient = recipient
	return nil
}

func (m *Message) setText(text string) error {
	if text == "" {
		return errs.NewValueIsRequiredError("text")
	}
	if length := len([]rune(text)); length > MaxTextLength {
		return errs.NewValueIsOutOfRangeError("text length", fmt.Sprintf("%d characters", length), 1, MaxTextLength)
	}
	m.text = text
	return nil
}
