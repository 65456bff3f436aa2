// Package ws is the realtime gateway. Clients connect once, authenticate
// with the same token as the REST surface, then join and leave order rooms
// over the socket. Events flow one way, bus to client; the only inbound
// mutations are room membership and courier location pings.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	outboundBuffer = 32
)

// Inbound frame types understood by the gateway.
const (
	frameJoinOrderRoom  = "joinOrderRoom"
	frameLeaveOrderRoom = "leaveOrderRoom"
	frameShareLocation  = "shareLocation"
)

type inboundFrame struct {
	Type    string   `json:"type"`
	OrderID string   `json:"orderId"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Gateway upgrades websocket connections and bridges them to the event bus.
type Gateway struct {
	bus                  ports.EventBus
	policy               access.Policy
	orders               ports.OrderRepository
	shareLocationHandler commands.ShareLocationCommandHandler
	secret               []byte
	logger               *slog.Logger
	upgrader             websocket.Upgrader
}

// NewGateway creates the realtime gateway.
func NewGateway(
	bus ports.EventBus,
	policy access.Policy,
	orders ports.OrderRepository,
	shareLocationHandler commands.ShareLocationCommandHandler,
	secret []byte,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		bus:                  bus,
		policy:               policy,
		orders:               orders,
		shareLocationHandler: shareLocationHandler,
		secret:               secret,
		logger:               logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handle serves GET /ws. The token comes from the "token" query parameter
// or the Authorization header; an invalid token never upgrades.
func (g *Gateway) Handle(c echo.Context) error {
	principal, err := g.authenticate(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	s := &session{
		gateway:   g,
		conn:      conn,
		principal: principal,
		outbound:  make(chan outboundFrame, outboundBuffer),
		rooms:     make(map[uuid.UUID]func()),
		done:      make(chan struct{}),
	}

	// Couriers always hear claim announcements; no room join needed.
	if principal.Role() == access.RoleCourier {
		events, cancel := g.bus.SubscribeCouriers()
		s.courierCancel = cancel
		go s.forward(events)
	}

	go s.writePump()
	s.readPump()
	return nil
}

func (g *Gateway) authenticate(c echo.Context) (access.Principal, error) {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenString, _ = strings.CutPrefix(header, "Bearer ")
	}
	if tokenString == "" {
		return access.Principal{}, fmt.Errorf("missing token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return access.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Principal{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return access.Principal{}, err
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return access.Principal{}, err
	}

	roleClaim, _ := claims["role"].(string)
	role, err := access.RoleFromString(roleClaim)
	if err != nil {
		return access.Principal{}, err
	}

	return access.NewPrincipal(id, role)
}

// session is one connected client. rooms maps order ids to subscription
// cancel functions; it is touched only from the read pump.
type session struct {
	gateway       *Gateway
	conn          *websocket.Conn
	principal     access.Principal
	outbound      chan outboundFrame
	rooms         map[uuid.UUID]func()
	courierCancel func()

	closeOnce sync.Once
	done      chan struct{}
}

func (s *session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.gateway.logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.sendError("malformed frame")
			continue
		}

		s.dispatch(frame)
	}
}

func (s *session) dispatch(frame inboundFrame) {
	switch frame.Type {
	case frameJoinOrderRoom:
		s.joinOrderRoom(frame.OrderID)
	case frameLeaveOrderRoom:
		s.leaveOrderRoom(frame.OrderID)
	case frameShareLocation:
		s.shareLocation(frame)
	default:
		s.sendError("unknown frame type " + frame.Type)
	}
}

func (s *session) joinOrderRoom(rawOrderID string) {
	orderID, err := kernel.UUIDFromString(rawOrderID)
	if err != nil {
		s.sendError("invalid order id")
		return
	}

	if _, joined := s.rooms[orderID.Bytes()]; joined {
		return
	}

	ctx := context.Background()
	aggregate, err := s.gateway.orders.Get(ctx, orderID)
	if err != nil {
		s.sendError("order not found")
		return
	}

	if err := s.gateway.policy.CanJoinRoom(s.principal, aggregate); err != nil {
		s.sendError("not a participant of this order")
		return
	}

	events, cancel := s.gateway.bus.SubscribeOrder(orderID)
	s.rooms[orderID.Bytes()] = cancel
	go s.forward(events)
}

func (s *session) leaveOrderRoom(rawOrderID string) {
	orderID, err := kernel.UUIDFromString(rawOrderID)
	if err != nil {
		s.sendError("invalid order id")
		return
	}

	if cancel, joined := s.rooms[orderID.Bytes()]; joined {
		cancel()
		delete(s.rooms, orderID.Bytes())
	}
}

func (s *session) shareLocation(frame inboundFrame) {
	orderID, err := kernel.UUIDFromString(frame.OrderID)
	if err != nil {
		s.sendError("invalid order id")
		return
	}
	if frame.Lat == nil || frame.Lng == nil {
		s.sendError("lat and lng are required")
		return
	}

	point, err := kernel.NewGeoPoint(*frame.Lat, *frame.Lng)
	if err != nil {
		s.sendError("invalid coordinates")
		return
	}

	cmd, err := commands.NewShareLocationCommand(s.principal, orderID, point)
	if err != nil {
		s.sendError("invalid location share")
		return
	}

	if err := s.gateway.shareLocationHandler.Handle(context.Background(), cmd); err != nil {
		s.sendError("location rejected")
	}
}

// forward copies bus events into the outbound queue until the subscription
// or the session ends.
func (s *session) forward(events <-chan ports.Event) {
	for event := range events {
		select {
		case s.outbound <- outboundFrame{Type: event.Type, Payload: event.Payload}:
		case <-s.done:
			return
		}
	}
}

func (s *session) sendError(message string) {
	select {
	case s.outbound <- outboundFrame{Type: "error", Payload: map[string]string{"message": message}}:
	case <-s.done:
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		// Closing the connection unblocks the read pump, which owns
		// the room map and runs the full cleanup.
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.outbound:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		for _, cancel := range s.rooms {
			cancel()
		}
		if s.courierCancel != nil {
			s.courierCancel()
		}
		_ = s.conn.Close()
	})
}
