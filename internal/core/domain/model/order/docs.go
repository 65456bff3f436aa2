// Package order provides domain entities and business logic for order management
// in the fulfillment system. It implements the Order aggregate root with lifecycle
// management, pricing, and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, line items,
//     charges, tracking history, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - LineItem: A value object for an ordered product line
//   - TrackingEvent: An append-only audit entry for one status transition
//   - Pricing/Charges: The server-side monetary breakdown of an order
//
// Key business rules:
//   - Orders advance only along the defined status graph; terminal states
//     (delivered, cancelled, refunded) allow no further transitions except
//     delivered -> refunded
//   - A courier is assigned exactly once; assignment is a one-way door
//   - Tracking history is append-only with strictly increasing sequence
//     numbers and non-decreasing timestamps
//   - Charges are always recomputed server-side, never taken from a client
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
