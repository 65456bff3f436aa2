package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order that has not been picked up.
// The aggregate decides whether the current status still allows it; on
// success the reason is recorded and a tracking entry appended. After the
// commit, stock is restored per line item (the inverse of the checkout
// decrement, equally non-atomic), the room is told, and the counterparty
// notified.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     access.Policy
	catalog    ports.Catalog
	publisher  ports.EventPublisher
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	policy access.Policy,
	catalog ports.Catalog,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		catalog:    catalog,
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes the cancellation command and returns the cancelled order.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	if err = h.policy.CanCancel(cmd.Principal(), aggregate); err != nil {
		return nil, err
	}

	if _, err = aggregate.Cancel(cmd.Reason(), time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.restoreStock(ctx, aggregate)

	h.publisher.PublishToOrder(aggregate.ID(), ports.Event{
		Type: ports.EventOrderStatus,
		Payload: map[string]any{
			"orderId": aggregate.ID().String(),
			"status":  aggregate.Status().String(),
		},
	})

	recipient := aggregate.Customer()
	if cmd.Principal().Role() == access.RoleCustomer {
		recipient = aggregate.Merchant()
	}
	h.notifier.Send(ctx, recipient, "Order cancelled",
		fmt.Sprintf("Order %s was cancelled: %s", aggregate.Number(), aggregate.CancellationReason()),
		map[string]string{"orderId": aggregate.ID().String()},
	)

	return aggregate, nil
}

// restoreStock returns every line item's quantity to the catalog.
func (h *CancelOrderCommandHandler) restoreStock(ctx context.Context, aggregate *order.Order) {
	for _, item := range aggregate.Items() {
		if err := h.catalog.AdjustStock(ctx, item.ProductID(), item.Quantity()); err != nil {
			h.logger.Warn("stock restore failed",
				"order_id", aggregate.ID().String(),
				"product_id", item.ProductID().String(),
				"quantity", item.Quantity(),
				"error", err,
			)
		}
	}
}
