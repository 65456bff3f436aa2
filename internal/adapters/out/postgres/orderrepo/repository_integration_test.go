package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// relaxedTracker accepts any tracking call; used where the tracked set is
// not the point of the test.
type relaxedTracker struct{}

func (relaxedTracker) TrackAggregate(kernel.UUID, interface{}) {}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.TrackingEventDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items, tracking_events").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	item, err := order.NewLineItem(kernel.NewUUID(), "Rice and curry", 2, 450)
	suite.Require().NoError(err)

	point, err := kernel.NewGeoPoint(6.9271, 79.8612)
	suite.Require().NoError(err)

	address, err := order.NewAddress("12 Galle Road", "Colombo", "00300", &point)
	suite.Require().NoError(err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(now),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.LineItem{item},
		address,
		order.PaymentCash,
		order.Charges{Subtotal: 900, DeliveryFee: 50, Tax: 90, Discount: 0, Total: 1040},
		"leave at gate",
		now,
	)
	suite.Require().NoError(err)
	return aggregate
}

// readyTestOrder returns a persisted order walked to the ready status.
func (suite *OrderRepositoryIntegrationTestSuite) readyTestOrder() *order.Order {
	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate)

	suite.Require().NoError(suite.repository.Add(context.Background(), aggregate))

	at := aggregate.CreatedAt().Add(time.Minute)
	for _, next := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		_, err := aggregate.TransitionTo(next, at, nil, "")
		suite.Require().NoError(err)
		at = at.Add(time.Minute)
	}
	suite.Require().NoError(suite.repository.Update(context.Background(), aggregate))

	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)

	var itemCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&itemCount).Error)
	suite.Equal(int64(1), itemCount)

	var eventCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.TrackingEventDTO{}).Count(&eventCount).Error)
	suite.Equal(int64(1), eventCount)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTrips() {
	ctx := context.Background()

	original := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(original.ID().IsEqual(retrieved.ID()))
	suite.Equal(original.Number(), retrieved.Number())
	suite.True(original.Customer().IsEqual(retrieved.Customer()))
	suite.True(original.Merchant().IsEqual(retrieved.Merchant()))
	suite.Nil(retrieved.Courier())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Equal(order.PaymentCash, retrieved.PaymentMethod())
	suite.Equal(original.Charges(), retrieved.Charges())
	suite.Equal("leave at gate", retrieved.Instructions())
	suite.Require().Len(retrieved.Items(), 1)
	suite.Equal("Rice and curry", retrieved.Items()[0].Name())
	suite.Equal(900.0, retrieved.Items()[0].LineTotal())
	suite.Require().Len(retrieved.History(), 1)
	suite.Equal(order.Pending, retrieved.History()[0].Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().Error(err)
	suite.Nil(retrieved)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsTrackingHistory() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	_, err := aggregate.TransitionTo(order.Confirmed, aggregate.CreatedAt().Add(time.Minute), nil, "accepted")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.Require().Len(retrieved.History(), 2)
	suite.Equal(order.Confirmed, retrieved.History()[1].Status())
	suite.Equal("accepted", retrieved.History()[1].Note())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	err := suite.repository.Update(ctx, aggregate)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_ReadyOrder_AssignsCourier() {
	ctx := context.Background()

	aggregate := suite.readyTestOrder()
	courier := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", aggregate.ID(), mock.Anything)

	claimedAt := time.Now().UTC().Truncate(time.Millisecond)
	claimed, err := suite.repository.Claim(ctx, aggregate.ID(), courier, claimedAt)
	suite.Require().NoError(err)

	suite.Equal(order.PickedUp, claimed.Status())
	suite.Require().NotNil(claimed.Courier())
	suite.True(courier.IsEqual(*claimed.Courier()))

	history := claimed.History()
	suite.Require().NotEmpty(history)
	suite.Equal(order.PickedUp, history[len(history)-1].Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_NonReadyOrder_ReturnsConflict() {
	ctx := context.Background()

	aggregate := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	_, err := suite.repository.Claim(ctx, aggregate.ID(), kernel.NewUUID(), time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)

	// Order untouched.
	retrieved, getErr := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(getErr)
	suite.Equal(order.Pending, retrieved.Status())
	suite.Nil(retrieved.Courier())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_AlreadyClaimed_ReturnsConflict() {
	ctx := context.Background()

	aggregate := suite.readyTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), mock.Anything)

	winner := kernel.NewUUID()
	_, err := suite.repository.Claim(ctx, aggregate.ID(), winner, time.Now())
	suite.Require().NoError(err)

	_, err = suite.repository.Claim(ctx, aggregate.ID(), kernel.NewUUID(), time.Now())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)

	retrieved, getErr := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(getErr)
	suite.True(winner.IsEqual(*retrieved.Courier()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.repository.Claim(ctx, kernel.NewUUID(), kernel.NewUUID(), time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

// TestClaim_ConcurrentCouriers_ExactlyOneWins races many couriers at the
// same ready order; the conditional update must let exactly one through.
func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_ConcurrentCouriers_ExactlyOneWins() {
	ctx := context.Background()

	aggregate := suite.readyTestOrder()
	suite.tracker.On("TrackAggregate", aggregate.ID(), mock.Anything)

	const couriers = 8
	results := make([]error, couriers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(couriers)
	for i := 0; i < couriers; i++ {
		go func(i int) {
			defer done.Done()
			repo := orderrepo.NewGormOrderRepository(suite.db, relaxedTracker{})
			start.Wait()
			_, results[i] = repo.Claim(ctx, aggregate.ID(), kernel.NewUUID(), time.Now())
		}(i)
	}
	start.Done()
	done.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			suite.ErrorIs(err, errs.ErrConflict)
		}
	}
	suite.Equal(1, winners)

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickedUp, retrieved.Status())
	suite.NotNil(retrieved.Courier())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
