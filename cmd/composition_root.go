package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/notifier"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	eventBus   *eventbus.InProcessEventBus
	policy     access.Policy
	pricing    order.Pricing
	catalog    ports.Catalog
	notifier   ports.Notifier
	geoService ports.GeoService
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	pricing, err := order.NewPricing(config.DeliveryFee, config.FreeDeliveryOver, config.TaxRate)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		eventBus:   eventbus.NewInProcessEventBus(),
		policy:     access.NewPolicy(),
		pricing:    pricing,
		catalog:    catalogrepo.NewGormCatalog(gormDB),
		notifier:   notifier.NewPushGatewayNotifier(config.PushGatewayURL, logger),
		geoService: geo.NewClient(config.RoutingServiceURL, config.GeocodingServiceURL),
		logger:     logger,
	}, nil
}

// EventBus exposes the bus so main can close it on shutdown.
func (c *CompositionRoot) EventBus() *eventbus.InProcessEventBus {
	return c.eventBus
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.catalog, c.pricing, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.policy, c.eventBus, c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.policy, c.catalog, c.eventBus, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimOrderCommandHandler(f, c.policy, c.eventBus, c.notifier)
}

func (c *CompositionRoot) CreateDeclineOrderViewCommandHandler() commands.DeclineOrderViewCommandHandler {
	return commands.NewDeclineOrderViewCommandHandler(c.policy, c.logger)
}

func (c *CompositionRoot) CreateSendMessageCommandHandler() commands.SendMessageCommandHandler {
	var f commands.ChatUoWFactory = FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendMessageCommandHandler(f, c.policy, c.eventBus)
}

func (c *CompositionRoot) CreateShareLocationCommandHandler() commands.ShareLocationCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewShareLocationCommandHandler(f, c.policy, c.eventBus)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMessagesQueryHandler() queries.GetMessagesQueryHandler {
	return queries.NewGetMessagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOptimizeRouteQueryHandler() queries.OptimizeRouteQueryHandler {
	return queries.NewOptimizeRouteQueryHandler(services.NewRoutePlanner())
}

func (c *CompositionRoot) CreateGetStaleOrdersQueryHandler() queries.GetStaleOrdersQueryHandler {
	return queries.NewGetStaleOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer wires the full REST surface.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateClaimOrderCommandHandler(),
		c.CreateDeclineOrderViewCommandHandler(),
		c.CreateSendMessageCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetAvailableOrdersQueryHandler(),
		c.CreateGetMessagesQueryHandler(),
		c.CreateOptimizeRouteQueryHandler(),
		c.geoService,
	)
}

// CreateWebsocketGateway wires the realtime gateway. The order repository is
// bound outside any transaction; room membership checks are pure reads.
func (c *CompositionRoot) CreateWebsocketGateway() *ws.Gateway {
	return ws.NewGateway(
		c.eventBus,
		c.policy,
		c.uowFactory.Create().OrderRepository(),
		c.CreateShareLocationCommandHandler(),
		[]byte(c.config.AuthSecret),
		c.logger,
	)
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetStaleOrdersQueryHandler(),
		c.config.StaleWatchSchedule,
		c.config.StaleReadyAge,
		c.config.StaleTransitAge,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}
