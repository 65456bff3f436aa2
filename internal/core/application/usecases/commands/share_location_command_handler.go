package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/ports"
)

// ShareLocationCommandHandler fans a courier's live position out to the
// order's room. The order is read only to authorize the sender; nothing is
// written, so no transaction is opened.
type ShareLocationCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     access.Policy
	publisher  ports.EventPublisher
}

// NewShareLocationCommandHandler creates a handler for location pings.
func NewShareLocationCommandHandler(
	uowFactory OrderUoWFactory,
	policy access.Policy,
	publisher ports.EventPublisher,
) ShareLocationCommandHandler {
	return ShareLocationCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle publishes the ping into the order's room.
func (h *ShareLocationCommandHandler) Handle(ctx context.Context, cmd ShareLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.policy.CanShareLocation(cmd.Principal(), aggregate); err != nil {
		return err
	}

	h.publisher.PublishToOrder(aggregate.ID(), ports.Event{
		Type: ports.EventDeliveryLocation,
		Payload: map[string]any{
			"lat":       cmd.Point().Lat(),
			"lng":       cmd.Point().Lng(),
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		},
	})

	return nil
}
