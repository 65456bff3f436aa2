package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetMessagesQueryIsNotConstructed = errors.New(
	"GetMessagesQuery must be created via NewGetMessagesQuery constructor",
)

// MessagesPageSize caps a single chat-history page at the most recent
// messages; older history is not paged in this core.
const MessagesPageSize = 100

// GetMessagesQuery reads an order's chat history: ascending by timestamp,
// capped at the most recent MessagesPageSize entries. Same participant rule
// as sending: the order's customer or its assigned courier.
type GetMessagesQuery struct { //nolint:recvcheck //using for validation
	principal access.Principal
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetMessagesQuery creates a chat-history query.
func NewGetMessagesQuery(principal access.Principal, orderID kernel.UUID) (GetMessagesQuery, error) {
	q := GetMessagesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setPrincipal(principal),
		q.setOrderID(orderID),
	); err != nil {
		return GetMessagesQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetMessagesQueryIsNotConstructed if validation fails.
func (q GetMessagesQuery) Validate() error {
	return q.guard.Validate(ErrGetMessagesQueryIsNotConstructed)
}

// Principal returns the requesting principal.
func (q GetMessagesQuery) Principal() access.Principal {
	return q.principal
}

// OrderID returns the order whose history is requested.
func (q GetMessagesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetMessagesQuery) setPrincipal(principal access.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	q.principal = principal
	return nil
}

func (q *GetMessagesQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// MessageView is the client-facing projection of a chat message.
type MessageView struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sentAt"`
}
