package access

import (
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Policy is the single authorization gate for order access.
// Every transport path (HTTP handlers and the websocket gateway alike) asks
// this policy instead of re-implementing "is this principal the order's
// customer/merchant/courier" checks per handler.
type Policy struct{}

// NewPolicy creates a new Policy instance.
func NewPolicy() Policy {
	return Policy{}
}

// CanViewOrder permits any of the three participants of the order:
// its customer, its merchant, or its assigned courier.
func (Policy) CanViewOrder(p Principal, o *order.Order) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if isCustomer(p, o) || isMerchant(p, o) || isAssignedCourier(p, o) {
		return nil
	}
	return errs.NewNotAuthorizedError("view order", "principal is not a participant of this order")
}

// CanTransition decides whether the principal may move the order to next.
//
// The merchant drives the preparation side of the lifecycle (confirmed,
// preparing, ready) and may issue a refund after delivery. The assigned
// courier drives the delivery side (in_transit, delivered). Picked-up is
// reached only through the claim operation and cancellation only through
// CanCancel, so neither is grantable here.
func (Policy) CanTransition(p Principal, o *order.Order, next order.Status) error {
	if err := p.Validate(); err != nil {
		return err
	}

	switch next {
	case order.Confirmed, order.Preparing, order.Ready, order.Refunded:
		if p.role == RoleMerchant && isMerchant(p, o) {
			return nil
		}
		return errs.NewNotAuthorizedError("update order status", "only the order's merchant may set this status")
	case order.InTransit, order.Delivered:
		if p.role == RoleCourier && isAssignedCourier(p, o) {
			return nil
		}
		return errs.NewNotAuthorizedError("update order status", "only the order's assigned courier may set this status")
	default:
		return errs.NewNotAuthorizedError("update order status", "status cannot be set directly")
	}
}

// CanCancel permits the order's customer and the order's merchant.
// Whether the current status still allows cancellation is the aggregate's
// decision, not the policy's.
func (Policy) CanCancel(p Principal, o *order.Order) error {
	if err := p.Validate(); err != nil {
		return err
	}

	switch p.role {
	case RoleCustomer:
		if isCustomer(p, o) {
			return nil
		}
	case RoleMerchant:
		if isMerchant(p, o) {
			return nil
		}
	}
	return errs.NewNotAuthorizedError("cancel order", "only the order's customer or merchant may cancel")
}

// CanClaim permits couriers only. Whether the specific order is still
// claimable is resolved atomically at the storage layer.
func (Policy) CanClaim(p Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.role == RoleCourier {
		return nil
	}
	return errs.NewNotAuthorizedError("claim order", "only couriers may claim deliveries")
}

// CanChat permits the order's customer and its assigned courier.
// An unassigned order has no chat counterpart yet, so an unassigned courier
// is rejected here before recipient resolution even starts.
func (Policy) CanChat(p Principal, o *order.Order) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if (p.role == RoleCustomer && isCustomer(p, o)) ||
		(p.role == RoleCourier && isAssignedCourier(p, o)) {
		return nil
	}
	return errs.NewNotAuthorizedError("chat on order", "only the order's customer or assigned courier may chat")
}

// CanShareLocation permits only the order's assigned courier: live location
// pings describe the delivery vehicle, nobody else has one to share.
func (Policy) CanShareLocation(p Principal, o *order.Order) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.role == RoleCourier && isAssignedCourier(p, o) {
		return nil
	}
	return errs.NewNotAuthorizedError("share location", "only the order's assigned courier may share location")
}

// CanJoinRoom guards live-room membership: the order's customer and its
// assigned courier. The merchant stays out of the live room; merchant-side
// updates are pull-based.
func (pol Policy) CanJoinRoom(p Principal, o *order.Order) error {
	if err := pol.CanChat(p, o); err != nil {
		return errs.NewNotAuthorizedError("join order room", "only the order's customer or assigned courier may join")
	}
	return nil
}

func isCustomer(p Principal, o *order.Order) bool {
	return o.Customer().IsEqual(p.id)
}

func isMerchant(p Principal, o *order.Order) bool {
	return o.Merchant().IsEqual(p.id)
}

func isAssignedCourier(p Principal, o *order.Order) bool {
	return o.Courier() != nil && o.Courier().IsEqual(p.id)
}
