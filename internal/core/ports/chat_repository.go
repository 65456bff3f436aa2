package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/chat"
)

// ChatRepository defines the persistence contract for order chat messages.
// Messages are immutable: there is no update or delete.
type ChatRepository interface {
	// Add persists a new message.
	Add(ctx context.Context, message *chat.Message) error
}
