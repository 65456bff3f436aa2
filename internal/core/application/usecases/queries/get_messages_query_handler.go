package queries

import (
	"context"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMessagesQueryHandler reads an order's chat history.
//
// Authorization mirrors sending: the principal must be the order's customer
// or its assigned courier. The check runs against the orders table first so
// that an outsider cannot distinguish "no access" from "no order".
type GetMessagesQueryHandler struct {
	db *gorm.DB
}

// NewGetMessagesQueryHandler creates a handler for chat-history reads.
// Requires a GORM database connection for query execution.
func NewGetMessagesQueryHandler(db *gorm.DB) GetMessagesQueryHandler {
	return GetMessagesQueryHandler{db: db}
}

// Handle executes the query. The inner SELECT takes the most recent page,
// the outer one flips it back to ascending order for display.
func (h GetMessagesQueryHandler) Handle(ctx context.Context, query GetMessagesQuery) ([]MessageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	principalID := query.Principal().ID().Bytes()

	var scope struct{ ID uuid.UUID }
	result := h.db.WithContext(ctx).Raw(`
		SELECT id
		FROM orders
		WHERE id = ?
		  AND (customer_id = ? OR courier_id = ?)
	`, query.OrderID().Bytes(), principalID, principalID).
		Scan(&scope)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	type messageRow struct {
		ID          uuid.UUID
		OrderID     uuid.UUID
		SenderID    uuid.UUID
		RecipientID uuid.UUID
		Text        string
		SentAt      time.Time
	}

	var rows []messageRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, sender_id, recipient_id, text, sent_at
		FROM (
			SELECT id, order_id, sender_id, recipient_id, text, sent_at
			FROM messages
			WHERE order_id = ?
			ORDER BY sent_at DESC
			LIMIT ?
		) page
		ORDER BY sent_at ASC
	`, scope.ID, MessagesPageSize).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(rows))
	for _, row := range rows {
		views = append(views, MessageView{
			ID:          row.ID.String(),
			OrderID:     row.OrderID.String(),
			SenderID:    row.SenderID.String(),
			RecipientID: row.RecipientID.String(),
			Text:        row.Text,
			SentAt:      row.SentAt,
		})
	}

	return views, nil
}
