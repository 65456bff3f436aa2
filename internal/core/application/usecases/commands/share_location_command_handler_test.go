package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sharedPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(6.9271, 79.8612)
	require.NoError(t, err)
	return point
}

func TestShareLocationCommandHandler_Handle_AssignedCourier(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	aggregate := orderInStatus(t, p, order.InTransit)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockPublisher)
	publisher.On("PublishToOrder", aggregate.ID(), mock.MatchedBy(func(e ports.Event) bool {
		payload, ok := e.Payload.(map[string]any)
		return e.Type == ports.EventDeliveryLocation && ok && payload["lat"] == 6.9271
	})).Once()

	courier := principalOf(t, p.courier, access.RoleCourier)
	cmd, err := commands.NewShareLocationCommand(courier, aggregate.ID(), sharedPoint(t))
	require.NoError(t, err)

	h := commands.NewShareLocationCommandHandler(factory, access.NewPolicy(), publisher)
	require.NoError(t, h.Handle(ctx, cmd))
	publisher.AssertExpectations(t)
}

func TestShareLocationCommandHandler_Handle_CustomerRejected(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	aggregate := orderInStatus(t, p, order.InTransit)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockPublisher)

	customer := principalOf(t, p.customer, access.RoleCustomer)
	cmd, err := commands.NewShareLocationCommand(customer, aggregate.ID(), sharedPoint(t))
	require.NoError(t, err)

	h := commands.NewShareLocationCommandHandler(factory, access.NewPolicy(), publisher)
	err = h.Handle(ctx, cmd)

	var authErr *errs.NotAuthorizedError
	require.ErrorAs(t, err, &authErr)
	publisher.AssertNotCalled(t, "PublishToOrder", mock.Anything, mock.Anything)
}

func TestNewShareLocationCommand_InvalidPoint(t *testing.T) {
	p := newParties()
	courier := principalOf(t, p.courier, access.RoleCourier)

	_, err := commands.NewShareLocationCommand(courier, kernel.NewUUID(), kernel.GeoPoint{})
	require.Error(t, err)
}
