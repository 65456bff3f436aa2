package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SendMessageCommandHandler relays a chat message between the order's
// customer and its assigned courier. The order is read inside the same
// transaction that stores the message; the recipient is always "the other
// participant", which means sending is impossible while no courier is
// assigned. After the commit the order's room hears an orderMessage event.
type SendMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	policy     access.Policy
	publisher  ports.EventPublisher
}

// NewSendMessageCommandHandler creates a handler for chat messages.
func NewSendMessageCommandHandler(
	uowFactory ChatUoWFactory,
	policy access.Policy,
	publisher ports.EventPublisher,
) SendMessageCommandHandler {
	return SendMessageCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle processes the message and returns the stored copy.
func (h *SendMessageCommandHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*chat.Message, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.CanChat(cmd.Principal(), aggregate); err != nil {
		return nil, err
	}

	recipient, err := resolveRecipient(cmd.Principal(), aggregate)
	if err != nil {
		return nil, err
	}

	message, err := chat.NewMessage(
		kernel.NewUUID(),
		aggregate.ID(),
		cmd.Principal().ID(),
		recipient,
		cmd.Text(),
		cmd.TempID(),
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.ChatRepository().Add(ctx, message); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishToOrder(aggregate.ID(), ports.Event{
		Type: ports.EventOrderMessage,
		Payload: map[string]any{
			"id":        message.ID().String(),
			"orderId":   message.OrderID().String(),
			"senderId":  message.Sender().String(),
			"text":      message.Text(),
			"tempId":    message.TempID(),
			"timestamp": message.SentAt().UTC().Format(time.RFC3339Nano),
		},
	})

	return message, nil
}

// resolveRecipient picks the other participant of the chat. The policy has
// already established the sender is the customer or the assigned courier,
// so the only remaining failure is a customer writing before any courier
// exists to receive it.
func resolveRecipient(p access.Principal, aggregate *order.Order) (kernel.UUID, error) {
	if p.Role() == access.RoleCourier {
		return aggregate.Customer(), nil
	}
	if aggregate.Courier() == nil {
		return kernel.UUID{}, errs.NewConflictErrorWithCause("recipient",
			errors.New("no courier assigned yet, there is nobody to message"))
	}
	return *aggregate.Courier(), nil
}
