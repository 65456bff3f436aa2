// Package chatrepo persists order chat messages. Messages are append-only;
// there is no update path.
package chatrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/chat"

	"github.com/google/uuid"
)

// MessageDTO represents the database structure for persisting chat messages.
type MessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	SenderID    uuid.UUID `gorm:"type:uuid"`
	RecipientID uuid.UUID `gorm:"type:uuid"`
	Text        string    `gorm:"type:text"`
	SentAt      time.Time `gorm:"index"`
}

// TableName specifies the database table name for chat messages.
func (MessageDTO) TableName() string {
	return "messages"
}

func fromDomain(message *chat.Message) MessageDTO {
	return MessageDTO{
		ID:          message.ID().Bytes(),
		OrderID:     message.OrderID().Bytes(),
		SenderID:    message.Sender().Bytes(),
		RecipientID: message.Recipient().Bytes(),
		Text:        message.Text(),
		SentAt:      message.SentAt(),
	}
}
