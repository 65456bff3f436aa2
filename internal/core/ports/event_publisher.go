package ports

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Event types carried over the realtime bus. The names are part of the
// wire protocol with connected clients.
const (
	EventOrderStatus      = "orderStatus"
	EventOrderMessage     = "orderMessage"
	EventDeliveryLocation = "delivery_location"
	EventOrderClaimed     = "orderClaimed"
)

// Event is one realtime notification. Payload must be JSON-serializable;
// it crosses the websocket boundary as-is.
type Event struct {
	Type    string
	Payload any
}

// EventPublisher is the write side of the realtime bus, as seen by command
// handlers. Publishing is best-effort and at-most-once: there is no
// durability, no retries, and a publish after a committed mutation can
// never fail the mutation.
type EventPublisher interface {
	// PublishToOrder delivers the event to subscribers of the order's room.
	PublishToOrder(orderID kernel.UUID, event Event)

	// PublishToCouriers delivers the event to the courier-wide broadcast
	// channel, used solely for claim announcements.
	PublishToCouriers(event Event)
}

// EventBus is the full bus contract: the publisher plus the subscription
// side used by the websocket gateway, and an explicit lifecycle owned by
// the composition root.
type EventBus interface {
	EventPublisher

	// SubscribeOrder registers a subscriber on the order's room. The
	// returned cancel function must be called when the subscriber leaves;
	// it unregisters the channel and closes it.
	SubscribeOrder(orderID kernel.UUID) (<-chan Event, func())

	// SubscribeCouriers registers a subscriber on the courier broadcast
	// channel.
	SubscribeCouriers() (<-chan Event, func())

	// Close shuts the bus down: all subscriber channels are closed and
	// subsequent publishes are dropped.
	Close()
}
