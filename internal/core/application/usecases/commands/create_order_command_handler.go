package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for checkout.
// Validates every requested product against the catalog, computes charges
// server-side, persists the order in "pending" status with its first
// tracking entry, then reserves stock and notifies the merchant.
//
// Stock is decremented after the order transaction commits, as a separate
// step: a failed decrement is logged and does not undo the order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	pricing    order.Pricing
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for checkout operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	pricing order.Pricing,
	notifier ports.Notifier,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		pricing:    pricing,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes the checkout command and returns the created order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Principal().Role() != access.RoleCustomer {
		return nil, errs.NewNotAuthorizedError("create order", "only customers may place orders")
	}

	items, merchant, err := h.buildLineItems(ctx, cmd.Items())
	if err != nil {
		return nil, err
	}

	charges, err := h.pricing.Quote(items)
	if err != nil {
		return nil, err
	}

	address, err := buildAddress(cmd.Address())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(now),
		cmd.Principal().ID(),
		merchant,
		items,
		address,
		cmd.PaymentMethod(),
		charges,
		cmd.Instructions(),
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.reserveStock(ctx, created)

	h.notifier.Send(ctx, merchant, "New order",
		fmt.Sprintf("Order %s is waiting for confirmation", created.Number()),
		map[string]string{"orderId": created.ID().String()},
	)

	return created, nil
}

// buildLineItems resolves every requested product, checks stock, and
// snapshots name and price into line items. All items must belong to the
// same merchant, who becomes the order's merchant.
func (h *CreateOrderCommandHandler) buildLineItems(
	ctx context.Context,
	inputs []OrderItemInput,
) ([]order.LineItem, kernel.UUID, error) {
	items := make([]order.LineItem, 0, len(inputs))
	var merchant kernel.UUID

	for _, input := range inputs {
		product, err := h.catalog.FindActiveProduct(ctx, input.ProductID)
		if err != nil {
			return nil, kernel.UUID{}, err
		}

		if product.Stock < input.Quantity {
			return nil, kernel.UUID{}, errs.NewConflictErrorWithCause("product stock",
				fmt.Errorf("product %s has %d in stock, %d requested",
					product.ID, product.Stock, input.Quantity))
		}

		if merchant.Validate() != nil {
			merchant = product.MerchantID
		} else if !merchant.IsEqual(product.MerchantID) {
			return nil, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("all items must belong to the same merchant"))
		}

		item, err := order.NewLineItem(product.ID, product.Name, input.Quantity, product.Price)
		if err != nil {
			return nil, kernel.UUID{}, err
		}
		items = append(items, item)
	}

	return items, merchant, nil
}

// reserveStock decrements stock per line item. Runs after the order is
// committed; a failure here means oversell is possible until reconciled,
// which is accepted and logged.
func (h *CreateOrderCommandHandler) reserveStock(ctx context.Context, created *order.Order) {
	for _, item := range created.Items() {
		if err := h.catalog.AdjustStock(ctx, item.ProductID(), -item.Quantity()); err != nil {
			h.logger.Warn("stock reservation failed",
				"order_id", created.ID().String(),
				"product_id", item.ProductID().String(),
				"quantity", item.Quantity(),
				"error", err,
			)
		}
	}
}

func buildAddress(input AddressInput) (order.Address, error) {
	var point *kernel.GeoPoint
	if input.Lat != nil && input.Lng != nil {
		p, err := kernel.NewGeoPoint(*input.Lat, *input.Lng)
		if err != nil {
			return order.Address{}, err
		}
		point = &p
	}

	return order.NewAddress(input.Street, input.City, input.PostalCode, point)
}
