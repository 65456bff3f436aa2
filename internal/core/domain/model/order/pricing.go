package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrPricingIsNotConstructed is returned when attempting to use an improperly
// initialized Pricing. Pricing must be created via NewPricing.
var ErrPricingIsNotConstructed = errors.New("Pricing must be created via NewPricing constructor")

// Pricing holds the configured charge policy applied at checkout: a flat
// delivery fee that is waived when the subtotal reaches a threshold, and a
// fixed-rate tax on the subtotal.
type Pricing struct { //nolint:recvcheck //using for validation
	deliveryFee      float64
	freeDeliveryOver float64
	taxRate          float64

	guard guard.ConstructorGuard
}

// NewPricing creates a validated pricing policy.
// Fee and threshold must be non-negative; tax rate must be within [0..1].
func NewPricing(deliveryFee, freeDeliveryOver, taxRate float64) (Pricing, error) {
	p := Pricing{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setDeliveryFee(deliveryFee),
		p.setFreeDeliveryOver(freeDeliveryOver),
		p.setTaxRate(taxRate),
	); err != nil {
		return Pricing{}, err
	}

	return p, nil
}

// Validate ensures the pricing policy was created through the constructor.
func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

// DeliveryFee returns the flat delivery fee.
func (p Pricing) DeliveryFee() float64 {
	return p.deliveryFee
}

// FreeDeliveryOver returns the subtotal threshold at which the fee is waived.
func (p Pricing) FreeDeliveryOver() float64 {
	return p.freeDeliveryOver
}

// TaxRate returns the fixed tax rate applied to the subtotal.
func (p Pricing) TaxRate() float64 {
	return p.taxRate
}

// Quote computes the full charge breakdown for a list of line items.
// The subtotal is the sum of line totals; the delivery fee is waived when the
// subtotal reaches the configured threshold; tax is taxRate * subtotal.
// Charges are always computed here, server-side - client-provided totals are
// never trusted.
func (p Pricing) Quote(items []LineItem) (Charges, error) {
	if err := p.Validate(); err != nil {
		return Charges{}, err
	}
	if len(items) == 0 {
		return Charges{}, errs.NewValueIsRequiredError("items")
	}

	var subtotal float64
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Charges{}, err
		}
		subtotal += item.LineTotal()
	}

	fee := p.deliveryFee
	if subtotal >= p.freeDeliveryOver {
		fee = 0
	}
	tax := subtotal * p.taxRate

	return Charges{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Discount:    0,
		Total:       subtotal + fee + tax,
	}, nil
}

func (p *Pricing) setDeliveryFee(fee float64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%f is negative", fee))
	}
	p.deliveryFee = fee
	return nil
}

func (p *Pricing) setFreeDeliveryOver(threshold float64) error {
	if threshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause("free delivery threshold",
			fmt.Errorf("%f is negative", threshold))
	}
	p.freeDeliveryOver = threshold
	return nil
}

func (p *Pricing) setTaxRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return errs.NewValueIsOutOfRangeError("tax rate", rate, 0, 1)
	}
	p.taxRate = rate
	return nil
}

// Charges is the monetary breakdown persisted on an order.
// Invariant: Total = Subtotal + DeliveryFee + Tax - Discount.
type Charges struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	Discount    float64
	Total       float64
}

// Validate checks the internal consistency of the breakdown.
func (c Charges) Validate() error {
	if c.Subtotal < 0 || c.DeliveryFee < 0 || c.Tax < 0 || c.Discount < 0 {
		return errs.NewValueIsInvalidError("charges")
	}
	if diff := c.Total - (c.Subtotal + c.DeliveryFee + c.Tax - c.Discount); diff > 1e-9 || diff < -1e-9 {
		return errs.NewValueIsInvalidErrorWithCause("charges",
			fmt.Errorf("total %f does not match breakdown", c.Total))
	}
	return nil
}
