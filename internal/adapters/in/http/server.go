// Package http exposes the REST surface of the service.
// It coordinates between HTTP handlers and application use cases.
package http

import (
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server holds the command and query handlers behind the REST routes.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	cancelOrderHandler       commands.CancelOrderCommandHandler
	claimOrderHandler        commands.ClaimOrderCommandHandler
	declineOrderViewHandler  commands.DeclineOrderViewCommandHandler
	sendMessageHandler       commands.SendMessageCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	getOrdersHandler          queries.GetOrdersQueryHandler
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler
	getMessagesHandler        queries.GetMessagesQueryHandler
	optimizeRouteHandler      queries.OptimizeRouteQueryHandler

	geoService ports.GeoService
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	declineOrderViewHandler commands.DeclineOrderViewCommandHandler,
	sendMessageHandler commands.SendMessageCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getMessagesHandler queries.GetMessagesQueryHandler,
	optimizeRouteHandler queries.OptimizeRouteQueryHandler,
	geoService ports.GeoService,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		updateOrderStatusHandler:  updateOrderStatusHandler,
		cancelOrderHandler:        cancelOrderHandler,
		claimOrderHandler:         claimOrderHandler,
		declineOrderViewHandler:   declineOrderViewHandler,
		sendMessageHandler:        sendMessageHandler,
		getOrderHandler:           getOrderHandler,
		getOrdersHandler:          getOrdersHandler,
		getAvailableOrdersHandler: getAvailableOrdersHandler,
		getMessagesHandler:        getMessagesHandler,
		optimizeRouteHandler:      optimizeRouteHandler,
		geoService:                geoService,
	}
}

// RegisterRoutes mounts the REST routes on the echo instance. Everything
// under /api/v1 requires a valid token; /health does not.
func (s *Server) RegisterRoutes(e *echo.Echo, authSecret []byte) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", AuthMiddleware(authSecret))

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/claim", s.ClaimOrder)
	api.POST("/orders/:id/decline", s.DeclineOrderView)
	api.GET("/orders/:id/messages", s.GetMessages)
	api.POST("/orders/:id/messages", s.SendMessage)
	api.POST("/routes/optimize", s.OptimizeRoute)
	api.GET("/geo/route", s.GeoRoute)
	api.GET("/geo/geocode", s.Geocode)
	api.GET("/geo/reverse", s.ReverseGeocode)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	var request createOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	items := make([]commands.OrderItemInput, 0, len(request.Items))
	for _, item := range request.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return respondError(ctx, err)
		}
		items = append(items, commands.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	paymentMethod, err := order.PaymentMethodFromString(request.PaymentMethod)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		principal,
		items,
		commands.AddressInput{
			Street:     request.Address.Street,
			City:       request.Address.City,
			PostalCode: request.Address.PostalCode,
			Lat:        request.Address.Lat,
			Lng:        request.Address.Lng,
		},
		paymentMethod,
		request.Instructions,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(created))
}

// GetOrders handles GET /api/v1/orders - lists the caller's own orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	query, err := queries.NewGetOrdersQuery(principal)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetAvailableOrders handles GET /api/v1/orders/available - lists claimable
// orders for couriers.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	query, err := queries.NewGetAvailableOrdersQuery(principal)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.getAvailableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order with items
// and tracking history.
func (s *Server) GetOrder(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(principal, orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - advances the
// order along its lifecycle.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request updateStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	next, err := order.StatusFromString(request.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	var location *kernel.GeoPoint
	if request.Lat != nil && request.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*request.Lat, *request.Lng)
		if pointErr != nil {
			return respondError(ctx, pointErr)
		}
		location = &point
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(principal, orderID, next, location, request.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request cancelOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	cmd, err := commands.NewCancelOrderCommand(principal, orderID, request.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(cancelled))
}

// ClaimOrder handles POST /api/v1/orders/:id/claim - atomically assigns the
// calling courier. A lost race yields 409.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewClaimOrderCommand(principal, orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	claimed, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(claimed))
}

// DeclineOrderView handles POST /api/v1/orders/:id/decline - records that
// the courier passed on the order. Nothing is stored; the decline only
// matters for the courier's own feed.
func (s *Server) DeclineOrderView(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeclineOrderViewCommand(principal, orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.declineOrderViewHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetMessages handles GET /api/v1/orders/:id/messages.
func (s *Server) GetMessages(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetMessagesQuery(principal, orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	messages, err := s.getMessagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /api/v1/orders/:id/messages. The recipient is
// resolved server-side from the order's parties.
func (s *Server) SendMessage(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request sendMessageRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	cmd, err := commands.NewSendMessageCommand(principal, orderID, request.Text, request.TempID)
	if err != nil {
		return respondError(ctx, err)
	}

	message, err := s.sendMessageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toMessageResponse(message))
}

// OptimizeRoute handles POST /api/v1/routes/optimize - orders delivery
// stops by repeated nearest neighbor.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	if _, ok := principalFrom(ctx); !ok {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}

	var request optimizeRouteRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	start, err := kernel.NewGeoPoint(request.Start.Lat, request.Start.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	stops := make([]kernel.GeoPoint, 0, len(request.Stops))
	for _, stop := range request.Stops {
		point, pointErr := kernel.NewGeoPoint(stop.Lat, stop.Lng)
		if pointErr != nil {
			return respondError(ctx, pointErr)
		}
		stops = append(stops, point)
	}

	query, err := queries.NewOptimizeRouteQuery(start, stops)
	if err != nil {
		return respondError(ctx, err)
	}

	route, err := s.optimizeRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, route)
}

// GeoRoute handles GET /api/v1/geo/route - proxies the driving route lookup.
func (s *Server) GeoRoute(ctx echo.Context) error {
	from, err := pointFromParams(ctx, "fromLat", "fromLng")
	if err != nil {
		return respondError(ctx, err)
	}
	to, err := pointFromParams(ctx, "toLat", "toLng")
	if err != nil {
		return respondError(ctx, err)
	}

	route, err := s.geoService.Route(ctx.Request().Context(), from, to)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"distanceMeters":  route.DistanceMeters,
		"durationSeconds": route.DurationSeconds,
		"geometry":        route.Geometry,
	})
}

// Geocode handles GET /api/v1/geo/geocode.
func (s *Server) Geocode(ctx echo.Context) error {
	address := ctx.QueryParam("address")
	if address == "" {
		return respondError(ctx, errs.NewValueIsRequiredError("address"))
	}

	point, err := s.geoService.Geocode(ctx.Request().Context(), address)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]float64{"lat": point.Lat(), "lng": point.Lng()})
}

// ReverseGeocode handles GET /api/v1/geo/reverse.
func (s *Server) ReverseGeocode(ctx echo.Context) error {
	point, err := pointFromParams(ctx, "lat", "lng")
	if err != nil {
		return respondError(ctx, err)
	}

	address, err := s.geoService.ReverseGeocode(ctx.Request().Context(), point)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"address": address})
}

func pointFromParams(ctx echo.Context, latParam, lngParam string) (kernel.GeoPoint, error) {
	lat, err := strconv.ParseFloat(ctx.QueryParam(latParam), 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewValueIsInvalidErrorWithCause(latParam, err)
	}
	lng, err := strconv.ParseFloat(ctx.QueryParam(lngParam), 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewValueIsInvalidErrorWithCause(lngParam, err)
	}
	return kernel.NewGeoPoint(lat, lng)
}
