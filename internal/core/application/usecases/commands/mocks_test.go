package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Claim(
	ctx context.Context,
	id kernel.UUID,
	courier kernel.UUID,
	at time.Time,
) (*order.Order, error) {
	args := m.Called(ctx, id, courier, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockChatRepository struct{ mock.Mock }

func (m *MockChatRepository) Add(ctx context.Context, message *chat.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) FindActiveProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Product), args.Error(1)
}

func (m *MockCatalog) AdjustStock(ctx context.Context, id kernel.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, recipient kernel.UUID, title, body string, data map[string]string) {
	m.Called(ctx, recipient, title, body, data)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishToOrder(orderID kernel.UUID, event ports.Event) {
	m.Called(orderID, event)
}

func (m *MockPublisher) PublishToCouriers(event ports.Event) {
	m.Called(event)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockChatUoW struct{ mock.Mock }

func (m *MockChatUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockChatUoW) ChatRepository() ports.ChatRepository {
	args := m.Called()
	return args.Get(0).(ports.ChatRepository)
}

type MockChatUoWFactory struct{ mock.Mock }

func (m *MockChatUoWFactory) Create() commands.ChatUoW {
	args := m.Called()
	return args.Get(0).(commands.ChatUoW)
}

// Test fixtures shared by the handler tests.

type parties struct {
	customer kernel.UUID
	merchant kernel.UUID
	courier  kernel.UUID
}

func newParties() parties {
	return parties{
		customer: kernel.NewUUID(),
		merchant: kernel.NewUUID(),
		courier:  kernel.NewUUID(),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func principalOf(t *testing.T, id kernel.UUID, role access.Role) access.Principal {
	t.Helper()
	p, err := access.NewPrincipal(id, role)
	require.NoError(t, err)
	return p
}

func testPricing(t *testing.T) order.Pricing {
	t.Helper()
	pricing, err := order.NewPricing(50, 1000, 0.10)
	require.NoError(t, err)
	return pricing
}

func pendingOrder(t *testing.T, p parties) *order.Order {
	t.Helper()

	item, err := order.NewLineItem(kernel.NewUUID(), "Kottu", 2, 100)
	require.NoError(t, err)

	address, err := order.NewAddress("12 Lake Rd", "Colombo", "00300", nil)
	require.NoError(t, err)

	charges, err := testPricing(t).Quote([]order.LineItem{item})
	require.NoError(t, err)

	now := time.Now()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(now),
		p.customer,
		p.merchant,
		[]order.LineItem{item},
		address,
		order.PaymentCash,
		charges,
		"",
		now,
	)
	require.NoError(t, err)
	return o
}

func orderInStatus(t *testing.T, p parties, target order.Status) *order.Order {
	t.Helper()

	o := pendingOrder(t, p)
	if target == order.Pending {
		return o
	}

	at := time.Now()
	for _, next := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		at = at.Add(time.Minute)
		_, err := o.TransitionTo(next, at, nil, "")
		require.NoError(t, err)
		if next == target {
			return o
		}
	}

	at = at.Add(time.Minute)
	_, err := o.ClaimBy(p.courier, at)
	require.NoError(t, err)
	if target == order.PickedUp {
		return o
	}

	for _, next := range []order.Status{order.InTransit, order.Delivered} {
		at = at.Add(time.Minute)
		_, err = o.TransitionTo(next, at, nil, "")
		require.NoError(t, err)
		if next == target {
			return o
		}
	}

	t.Fatalf("cannot build order in status %s", target)
	return nil
}
