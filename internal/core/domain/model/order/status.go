package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> PickedUp ──> InTransit ──> Delivered ──> Refunded
//	   │            │             │
//	   └────────────┴─────────────┴──> Cancelled
//
// Delivered, Cancelled and Refunded are terminal states (Delivered allows
// only the out-of-band Refunded transition). Ready -> PickedUp is reserved
// for the claim operation, which also assigns the courier atomically.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after customer checkout.
	// The order is waiting for the merchant to confirm it.
	Pending

	// Confirmed indicates the merchant has accepted the order.
	Confirmed

	// Preparing indicates the merchant is preparing the order.
	Preparing

	// Ready indicates the order is packed and waiting for a courier to claim it.
	Ready

	// PickedUp indicates a courier has claimed the order and collected it.
	// Entering this status is reserved for the atomic claim operation.
	PickedUp

	// InTransit indicates the courier is en route to the delivery address.
	InTransit

	// Delivered indicates the order reached the customer.
	// Terminal apart from the out-of-band Refunded transition.
	Delivered

	// Cancelled indicates the order was cancelled by the customer or merchant
	// before pickup. Terminal.
	Cancelled

	// Refunded indicates a delivered order was refunded out of the normal flow.
	// Terminal.
	Refunded
)

// getStatusStrings returns a map of Status values to their wire representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Refunded:  "refunded",
	}
}

// getStatusTransitions returns the adjacency list of the status graph.
// Absence of an edge means the transition is rejected.
func getStatusTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready, Cancelled},
		Ready:     {PickedUp},
		PickedUp:  {InTransit},
		InTransit: {Delivered},
		Delivered: {Refunded},
		Cancelled: {},
		Refunded:  {},
	}
}

// StatusFromString parses a wire representation into a Status.
// Returns an error for unrecognized or "unknown" values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is defined from this status.
// Delivered is not terminal in the strict sense because of the reserved
// Delivered -> Refunded edge, but it ends the normal fulfillment flow.
func (s Status) IsTerminal() bool {
	edges, ok := getStatusTransitions()[s]
	return ok && len(edges) == 0
}

// CanTransitionTo reports whether the status graph contains an edge
// from the current status to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getStatusTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition along the status graph.
//
// Returns:
//   - (next, nil) when the edge exists
//   - (0, ConflictError) when the transition is not allowed from the current status
//
// The stored order is never mutated on a rejected transition; callers rely on
// this method before persisting anything.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}

	if !s.CanTransitionTo(next) {
		return 0, errs.NewConflictErrorWithCause("status transition",
			fmt.Errorf("cannot move from %s to %s", s, next))
	}

	return next, nil
}

// ValidateCanCancel checks that the order may still be cancelled.
// Cancellation is allowed only before pickup: pending, confirmed or preparing.
func (s Status) ValidateCanCancel() error {
	if !s.CanTransitionTo(Cancelled) {
		return errs.NewConflictErrorWithCause("cancel order",
			fmt.Errorf("%s order cannot be cancelled", s))
	}
	return nil
}

// ValidateCanHaveCourier validates the consistency between order status and
// courier assignment. Statuses from PickedUp onward require a courier;
// everything before the claim, and Cancelled, must have none.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	requiresCourier := s == PickedUp || s == InTransit || s == Delivered || s == Refunded

	if courier && !requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	}

	if !courier && requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}

	return nil
}

// ValidateCanClaim checks that the order is claimable by a courier.
// Only Ready orders can be claimed.
func (s Status) ValidateCanClaim() error {
	if s != Ready {
		return errs.NewConflictErrorWithCause("claim order",
			fmt.Errorf("%s order cannot be claimed", s))
	}
	return nil
}
