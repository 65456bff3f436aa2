package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCancelHandler(
	factory commands.OrderUoWFactory,
	catalog ports.Catalog,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		factory, access.NewPolicy(), catalog, publisher, notifier, testLogger())
}

func TestCancelOrderCommandHandler_Handle_CustomerCancelsPreparing(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	aggregate := orderInStatus(t, p, order.Preparing)
	item := aggregate.Items()[0]

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	catalog := new(MockCatalog)
	catalog.On("AdjustStock", ctx, item.ProductID(), item.Quantity()).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("PublishToOrder", aggregate.ID(), mock.MatchedBy(func(e ports.Event) bool {
		return e.Type == ports.EventOrderStatus
	})).Once()

	notifier := new(MockNotifier)
	notifier.On("Send", ctx, p.merchant, mock.Anything, mock.Anything, mock.Anything).Once()

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewCancelOrderCommand(customer, aggregate.ID(), "changed my mind")
	require.NoError(t, err)

	h := newCancelHandler(factory, catalog, publisher, notifier)
	cancelled, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cancelled.Status())
	assert.Equal(t, "changed my mind", cancelled.CancellationReason())
	catalog.AssertExpectations(t)
	publisher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_AfterPickupRejected(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	aggregate := orderInStatus(t, p, order.PickedUp)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	catalog := new(MockCatalog)

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewCancelOrderCommand(customer, aggregate.ID(), "too late")
	require.NoError(t, err)

	h := newCancelHandler(factory, catalog, new(MockPublisher), new(MockNotifier))
	_, err = h.Handle(ctx, cmd)

	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, order.PickedUp, aggregate.Status())
	catalog.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_CourierCannotCancel(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	aggregate := orderInStatus(t, p, order.Ready)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	courier := principalOf(t, p.courier, access.RoleCourier)
	cmd, err := commands.NewCancelOrderCommand(courier, aggregate.ID(), "cannot reach")
	require.NoError(t, err)

	h := newCancelHandler(factory, new(MockCatalog), new(MockPublisher), new(MockNotifier))
	_, err = h.Handle(ctx, cmd)

	var authErr *errs.NotAuthorizedError
	require.ErrorAs(t, err, &authErr)
}

func TestNewCancelOrderCommand_ReasonRequired(t *testing.T) {
	p := newParties()
	customer := principalOf(t, p.customer, access.RoleCustomer)
	aggregate := pendingOrder(t, p)

	_, err := commands.NewCancelOrderCommand(customer, aggregate.ID(), "")
	require.Error(t, err)
}
