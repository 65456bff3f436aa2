package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutFixture(t *testing.T) (parties, ports.Product, commands.CreateOrderCommand) {
	t.Helper()

	p := newParties()
	product := ports.Product{
		ID:         kernel.NewUUID(),
		MerchantID: p.merchant,
		Name:       "Kottu",
		Price:      100,
		Stock:      5,
		IsActive:   true,
	}

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewCreateOrderCommand(
		customer,
		[]commands.OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		validAddress(),
		order.PaymentCash,
		"",
	)
	require.NoError(t, err)
	return p, product, cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	p, product, cmd := newCheckoutFixture(t)

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, product.ID).Return(product, nil).Once()
	catalog.On("AdjustStock", ctx, product.ID, -2).Return(nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(repo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Send", ctx, p.merchant, "New order", mock.Anything, mock.Anything).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, testPricing(t), notifier, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.True(t, created.Customer().IsEqual(p.customer))
	assert.True(t, created.Merchant().IsEqual(p.merchant))
	assert.Nil(t, created.Courier())
	// subtotal 200, fee 50 (below the 1000 waiver), tax 20
	assert.InDelta(t, 200, created.Charges().Subtotal, 1e-9)
	assert.InDelta(t, 50, created.Charges().DeliveryFee, 1e-9)
	assert.InDelta(t, 20, created.Charges().Tax, 1e-9)
	assert.InDelta(t, 270, created.Charges().Total, 1e-9)
	assert.Len(t, created.History(), 1)

	catalog.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InsufficientStock(t *testing.T) {
	ctx := t.Context()
	p, product, _ := newCheckoutFixture(t)
	product.Stock = 1

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, product.ID).Return(product, nil).Once()

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewCreateOrderCommand(
		customer,
		[]commands.OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		validAddress(),
		order.PaymentCash,
		"",
	)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	notifier := new(MockNotifier)
	h := commands.NewCreateOrderCommandHandler(factory, catalog, testPricing(t), notifier, testLogger())

	_, err = h.Handle(ctx, cmd)

	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	_, product, cmd := newCheckoutFixture(t)

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, product.ID).
		Return(ports.Product{}, errs.NewObjectNotFoundError("product", product.ID)).Once()

	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, catalog, testPricing(t), new(MockNotifier), testLogger())

	_, err := h.Handle(ctx, cmd)

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_NonCustomerRejected(t *testing.T) {
	ctx := t.Context()
	p, product, _ := newCheckoutFixture(t)

	courier := principalOf(t, p.courier, access.RoleCourier)
	cmd, err := commands.NewCreateOrderCommand(
		courier,
		[]commands.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		validAddress(),
		order.PaymentCash,
		"",
	)
	require.NoError(t, err)

	h := commands.NewCreateOrderCommandHandler(
		new(MockOrderUoWFactory), new(MockCatalog), testPricing(t), new(MockNotifier), testLogger())

	_, err = h.Handle(ctx, cmd)

	var authErr *errs.NotAuthorizedError
	require.ErrorAs(t, err, &authErr)
}

func TestCreateOrderCommandHandler_Handle_MixedMerchantsRejected(t *testing.T) {
	ctx := t.Context()
	p, first, _ := newCheckoutFixture(t)
	second := first
	second.ID = kernel.NewUUID()
	second.MerchantID = kernel.NewUUID()

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, first.ID).Return(first, nil).Once()
	catalog.On("FindActiveProduct", ctx, second.ID).Return(second, nil).Once()

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewCreateOrderCommand(
		customer,
		[]commands.OrderItemInput{
			{ProductID: first.ID, Quantity: 1},
			{ProductID: second.ID, Quantity: 1},
		},
		validAddress(),
		order.PaymentCash,
		"",
	)
	require.NoError(t, err)

	h := commands.NewCreateOrderCommandHandler(
		new(MockOrderUoWFactory), catalog, testPricing(t), new(MockNotifier), testLogger())

	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_StockFailureDoesNotUndoOrder(t *testing.T) {
	ctx := t.Context()
	p, product, cmd := newCheckoutFixture(t)

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, product.ID).Return(product, nil).Once()
	catalog.On("AdjustStock", ctx, product.ID, -2).Return(errors.New("catalog down")).Once()

	repo := new(MockOrderRepository)
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Send", ctx, p.merchant, mock.Anything, mock.Anything, mock.Anything).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, testPricing(t), notifier, testLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	catalog.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	_, product, cmd := newCheckoutFixture(t)

	catalog := new(MockCatalog)
	catalog.On("FindActiveProduct", ctx, product.ID).Return(product, nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalog, testPricing(t), new(MockNotifier), testLogger())
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	catalog.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
}
