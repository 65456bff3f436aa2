// Package eventbus implements the realtime event bus in process memory.
// Delivery is at-most-once: events published while nobody is subscribed are
// dropped, and a subscriber that cannot keep up loses events rather than
// blocking the publisher.
package eventbus

import (
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity. A full buffer
// means the subscriber is too slow and further events for it are dropped.
const subscriberBuffer = 16

// InProcessEventBus fans events out to order rooms and the courier-wide
// broadcast channel. Safe for concurrent use.
type InProcessEventBus struct {
	mu       sync.RWMutex
	closed   bool
	rooms    map[uuid.UUID]map[chan ports.Event]struct{}
	couriers map[chan ports.Event]struct{}
}

// NewInProcessEventBus creates an empty bus.
func NewInProcessEventBus() *InProcessEventBus {
	return &InProcessEventBus{
		rooms:    make(map[uuid.UUID]map[chan ports.Event]struct{}),
		couriers: make(map[chan ports.Event]struct{}),
	}
}

// PublishToOrder delivers the event to every subscriber of the order's room.
func (b *InProcessEventBus) PublishToOrder(orderID kernel.UUID, event ports.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for subscriber := range b.rooms[orderID.Bytes()] {
		send(subscriber, event)
	}
}

// PublishToCouriers delivers the event to every courier broadcast subscriber.
func (b *InProcessEventBus) PublishToCouriers(event ports.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for subscriber := range b.couriers {
		send(subscriber, event)
	}
}

// SubscribeOrder registers a subscriber on the order's room. The cancel
// function unregisters the channel and closes it; calling it twice is safe.
func (b *InProcessEventBus) SubscribeOrder(orderID kernel.UUID) (<-chan ports.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return closedChannel(), func() {}
	}

	key := orderID.Bytes()
	room, ok := b.rooms[key]
	if !ok {
		room = make(map[chan ports.Event]struct{})
		b.rooms[key] = room
	}

	subscriber := make(chan ports.Event, subscriberBuffer)
	room[subscriber] = struct{}{}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		room, ok := b.rooms[key]
		if !ok {
			return
		}
		if _, ok := room[subscriber]; !ok {
			return
		}
		delete(room, subscriber)
		if len(room) == 0 {
			delete(b.rooms, key)
		}
		close(subscriber)
	}

	return subscriber, cancel
}

// SubscribeCouriers registers a subscriber on the courier broadcast channel.
func (b *InProcessEventBus) SubscribeCouriers() (<-chan ports.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return closedChannel(), func() {}
	}

	subscriber := make(chan ports.Event, subscriberBuffer)
	b.couriers[subscriber] = struct{}{}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.couriers[subscriber]; !ok {
			return
		}
		delete(b.couriers, subscriber)
		close(subscriber)
	}

	return subscriber, cancel
}

// Close shuts the bus down. All subscriber channels are closed; subsequent
// publishes and subscriptions are no-ops.
func (b *InProcessEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, room := range b.rooms {
		for subscriber := range room {
			close(subscriber)
		}
	}
	for subscriber := range b.couriers {
		close(subscriber)
	}

	b.rooms = make(map[uuid.UUID]map[chan ports.Event]struct{})
	b.couriers = make(map[chan ports.Event]struct{})
}

func send(subscriber chan ports.Event, event ports.Event) {
	select {
	case subscriber <- event:
	default:
		// Subscriber buffer full: drop rather than block the publisher.
	}
}

func closedChannel() <-chan ports.Event {
	ch := make(chan ports.Event)
	close(ch)
	return ch
}
