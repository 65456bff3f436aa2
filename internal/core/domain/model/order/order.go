package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents a delivery order in the system. It is the aggregate root that
// manages the order lifecycle from customer checkout through merchant preparation,
// courier claim and delivery.
//
// Order maintains these invariants:
//   - Status only advances along the edges of the status graph
//   - A courier is assigned at most once; the courier field is never overwritten
//   - Tracking history is append-only with strictly increasing sequence numbers
//     and non-decreasing timestamps
//   - Charges are fixed at creation and never recomputed from client input
//   - The cancellation reason is set exactly when the order is cancelled
//
// The struct uses private fields to ensure encapsulation; all mutation goes
// through validated methods.
type Order struct {
	id       kernel.UUID
	number   string
	customer kernel.UUID
	merchant kernel.UUID
	courier  *kernel.UUID

	items   []LineItem
	charges Charges
	address Address

	status        Status
	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	instructions       string
	cancellationReason string

	history []TrackingEvent

	createdAt   time.Time
	updatedAt   time.Time
	deliveredAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order at checkout time. The order starts in Pending
// status with payment unsettled and an initial tracking event recorded at now.
//
// Parameters:
//   - id: unique identifier for the order
//   - number: generated human-readable order number
//   - customer, merchant: the two fixed participants
//   - items: validated line items (at least one)
//   - address: the delivery destination
//   - paymentMethod: how the customer chose to pay
//   - charges: the server-computed monetary breakdown
//   - instructions: optional free-text delivery instructions
//   - now: server timestamp of creation
func NewOrder(
	id kernel.UUID,
	number string,
	customer kernel.UUID,
	merchant kernel.UUID,
	items []LineItem,
	address Address,
	paymentMethod PaymentMethod,
	charges Charges,
	instructions string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentUnpaid,
		instructions:  instructions,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParticipants(customer, merchant),
		o.setItems(items),
		o.setAddress(address),
		o.setPaymentMethod(paymentMethod),
		o.setCharges(charges),
	); err != nil {
		return nil, err
	}

	if _, err := o.appendEvent(Pending, now, nil, "order placed"); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence without rerunning
// creation-time side effects. It still validates cross-field consistency,
// in particular that courier assignment matches the status.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customer kernel.UUID,
	merchant kernel.UUID,
	courier *kernel.UUID,
	items []LineItem,
	address Address,
	status Status,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	charges Charges,
	instructions string,
	cancellationReason string,
	history []TrackingEvent,
	createdAt time.Time,
	updatedAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{
		instructions:       instructions,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		deliveredAt:        deliveredAt,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParticipants(customer, merchant),
		o.setItems(items),
		o.setAddress(address),
		o.setPaymentMethod(paymentMethod),
		o.setCharges(charges),
		status.Validate(),
		paymentStatus.Validate(),
		status.ValidateCanHaveCourier(courier != nil),
	); err != nil {
		return nil, err
	}

	if courier != nil {
		if err := courier.Validate(); err != nil {
			return nil, err
		}
		courierCopy := *courier
		o.courier = &courierCopy
	}

	o.status = status
	o.paymentStatus = paymentStatus

	for _, event := range history {
		if err := event.Validate(); err != nil {
			return nil, err
		}
	}
	o.history = append(o.history, history...)

	return o, nil
}

// Validate ensures the Order instance was properly constructed through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

// Customer returns the ordering customer's identifier.
func (o *Order) Customer() kernel.UUID {
	return o.customer
}

// Merchant returns the fulfilling merchant's identifier.
func (o *Order) Merchant() kernel.UUID {
	return o.merchant
}

// Courier returns the assigned courier's identifier, nil while unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courier
}

// Items returns a copy of the ordered line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// Charges returns the monetary breakdown fixed at creation.
func (o *Order) Charges() Charges {
	return o.charges
}

// Address returns the delivery destination.
func (o *Order) Address() Address {
	return o.address
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMethod returns the payment method chosen at checkout.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the settlement state of the payment.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Instructions returns the optional delivery instructions.
func (o *Order) Instructions() string {
	return o.instructions
}

// CancellationReason returns the recorded reason, empty unless cancelled.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// History returns a copy of the append-only tracking history, oldest first.
func (o *Order) History() []TrackingEvent {
	history := make([]TrackingEvent, len(o.history))
	copy(history, o.history)
	return history
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last successful mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DeliveredAt returns the delivery timestamp, nil until delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// TransitionTo advances the order along the status graph and appends the
// corresponding tracking event.
//
// Two statuses cannot be entered through this method:
//   - Cancelled requires a reason and goes through Cancel
//   - PickedUp is entered only by the atomic claim operation (ClaimBy)
//
// On entering Delivered the delivered timestamp is set, and a cash order is
// marked paid (settled in person on the doorstep).
//
// Returns the appended tracking event; on any error the order is unchanged.
func (o *Order) TransitionTo(next Status, at time.Time, location *kernel.GeoPoint, note string) (TrackingEvent, error) {
	if err := o.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if next == Cancelled {
		return TrackingEvent{}, errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("cancellation requires a reason, use Cancel"))
	}
	if next == PickedUp {
		return TrackingEvent{}, errs.NewConflictErrorWithCause("status transition",
			errors.New("picked_up is entered via the claim operation"))
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return TrackingEvent{}, err
	}

	event, err := o.appendEvent(newStatus, at, location, note)
	if err != nil {
		return TrackingEvent{}, err
	}

	o.status = newStatus
	if newStatus == Delivered {
		deliveredAt := event.At()
		o.deliveredAt = &deliveredAt
		if o.paymentMethod == PaymentCash {
			o.paymentStatus = PaymentPaid
		}
	}

	return event, nil
}

// Cancel moves the order to Cancelled and records the reason.
// Allowed only before pickup (pending, confirmed or preparing).
// Returns the appended tracking event; on any error the order is unchanged.
func (o *Order) Cancel(reason string, at time.Time) (TrackingEvent, error) {
	if err := o.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if reason == "" {
		return TrackingEvent{}, errs.NewValueIsRequiredError("cancellation reason")
	}
	if err := o.status.ValidateCanCancel(); err != nil {
		return TrackingEvent{}, err
	}

	event, err := o.appendEvent(Cancelled, at, nil, reason)
	if err != nil {
		return TrackingEvent{}, err
	}

	o.status = Cancelled
	o.cancellationReason = reason
	return event, nil
}

// ClaimBy assigns the courier and moves the order to PickedUp in one step.
// Assignment is a one-way door: a second claim is rejected with a conflict and
// the courier field is never overwritten.
//
// Note: this method enforces the rule in memory; closing the race between two
// concurrent claimers is the storage layer's job (a single conditional write).
func (o *Order) ClaimBy(courier kernel.UUID, at time.Time) (TrackingEvent, error) {
	if err := o.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if err := courier.Validate(); err != nil {
		return TrackingEvent{}, err
	}
	if o.courier != nil {
		return TrackingEvent{}, errs.NewConflictErrorWithCause("claim order",
			errors.New("order already has a courier"))
	}
	if err := o.status.ValidateCanClaim(); err != nil {
		return TrackingEvent{}, err
	}

	event, err := o.appendEvent(PickedUp, at, nil, "claimed by courier")
	if err != nil {
		return TrackingEvent{}, err
	}

	o.courier = &courier
	o.status = PickedUp
	return event, nil
}

// appendEvent adds the next tracking event, clamping the timestamp so history
// timestamps never go backward, and bumps updatedAt.
func (o *Order) appendEvent(status Status, at time.Time, location *kernel.GeoPoint, note string) (TrackingEvent, error) {
	if last := len(o.history); last > 0 && at.Before(o.history[last-1].At()) {
		at = o.history[last-1].At()
	}

	event, err := NewTrackingEvent(len(o.history)+1, status, at, location, note)
	if err != nil {
		return TrackingEvent{}, err
	}

	o.history = append(o.history, event)
	o.updatedAt = at
	return event, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setParticipants(customer, merchant kernel.UUID) error {
	if err := errors.Join(customer.Validate(), merchant.Validate()); err != nil {
		return err
	}
	o.customer = customer
	o.merchant = merchant
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setCharges(charges Charges) error {
	if err := charges.Validate(); err != nil {
		return err
	}
	o.charges = charges
	return nil
}

