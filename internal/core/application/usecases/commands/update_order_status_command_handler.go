package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// UpdateOrderStatusCommandHandler advances an order along its status graph.
//
// The flow is: load the order, check the policy, let the aggregate walk the
// graph (recording a tracking entry), persist, commit. After the commit an
// orderStatus event goes to the order's room and the customer is notified;
// both are best-effort.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     access.Policy
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy access.Policy,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the status-update command and returns the updated order.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.CanTransition(cmd.Principal(), aggregate, cmd.Next()); err != nil {
		return nil, err
	}

	if _, err = aggregate.TransitionTo(cmd.Next(), time.Now(), cmd.Location(), cmd.Note()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishToOrder(aggregate.ID(), ports.Event{
		Type: ports.EventOrderStatus,
		Payload: map[string]any{
			"orderId":  aggregate.ID().String(),
			"status":   aggregate.Status().String(),
			"location": eventLocation(cmd.Location()),
		},
	})

	h.notifier.Send(ctx, aggregate.Customer(), "Order update",
		fmt.Sprintf("Order %s is now %s", aggregate.Number(), aggregate.Status()),
		map[string]string{"orderId": aggregate.ID().String(), "status": aggregate.Status().String()},
	)

	return aggregate, nil
}
