package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod is how the customer chose to pay at checkout.
// The payment flow itself lives outside this core; only the choice and the
// settlement state are carried on the order.
type PaymentMethod int

const (
	// PaymentMethodUnknown catches uninitialized values.
	PaymentMethodUnknown PaymentMethod = iota

	// PaymentCash is settled in person on delivery.
	PaymentCash

	// PaymentCard was authorized externally before checkout.
	PaymentCard
)

// PaymentMethodFromString parses a wire representation into a PaymentMethod.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "cash":
		return PaymentCash, nil
	case "card":
		return PaymentCard, nil
	default:
		return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%q is not a valid payment method", s))
	}
}

// Validate checks if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	if m != PaymentCash && m != PaymentCard {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the wire representation of the method.
func (m PaymentMethod) String() string {
	switch m {
	case PaymentCash:
		return "cash"
	case PaymentCard:
		return "card"
	default:
		return "unknown"
	}
}

// PaymentStatus is the settlement state of an order's payment.
type PaymentStatus int

const (
	// PaymentStatusUnknown catches uninitialized values.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentUnpaid means the order has not been settled yet.
	PaymentUnpaid

	// PaymentPaid means the order has been settled.
	PaymentPaid
)

// PaymentStatusFromString parses a wire representation into a PaymentStatus.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	switch s {
	case "unpaid":
		return PaymentUnpaid, nil
	case "paid":
		return PaymentPaid, nil
	default:
		return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%q is not a valid payment status", s))
	}
}

// Validate checks if the PaymentStatus value is valid.
func (s PaymentStatus) Validate() error {
	if s != PaymentUnpaid && s != PaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the wire representation of the status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentUnpaid:
		return "unpaid"
	case PaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}
