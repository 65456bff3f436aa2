package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ClaimOrderCommandHandler assigns a courier to a ready order.
//
// The race between couriers is settled entirely inside the repository's
// Claim operation, a single conditional write. This handler never reads the
// order first to decide whether to claim: that pattern reintroduces the
// double-assignment race the conditional write exists to prevent.
//
// On success the order's room hears an orderStatus event, other couriers
// hear orderClaimed on the broadcast channel so they can prune their
// available lists, and the customer is notified.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     access.Policy
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewClaimOrderCommandHandler creates a handler for claim attempts.
func NewClaimOrderCommandHandler(
	uowFactory OrderUoWFactory,
	policy access.Policy,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the claim and returns the claimed order.
// Losing the race yields a ConflictError with the order left untouched.
func (h *ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.CanClaim(cmd.Principal()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Claim(ctx, cmd.OrderID(), cmd.Principal().ID(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishToOrder(aggregate.ID(), ports.Event{
		Type: ports.EventOrderStatus,
		Payload: map[string]any{
			"orderId": aggregate.ID().String(),
			"status":  aggregate.Status().String(),
		},
	})
	h.publisher.PublishToCouriers(ports.Event{
		Type:    ports.EventOrderClaimed,
		Payload: map[string]any{"orderId": aggregate.ID().String()},
	})

	h.notifier.Send(ctx, aggregate.Customer(), "Courier assigned",
		fmt.Sprintf("A courier picked up order %s", aggregate.Number()),
		map[string]string{"orderId": aggregate.ID().String()},
	)

	return aggregate, nil
}
