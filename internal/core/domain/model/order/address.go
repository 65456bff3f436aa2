package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the delivery destination of an order: a free-text street line,
// city, postal code and an optional geocoded point used for routing and
// live-tracking map display.
type Address struct { //nolint:recvcheck //using for validation
	street     string
	city       string
	postalCode string
	point      *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates a validated delivery address.
// Street and city are required; the geo point is optional.
func NewAddress(street, city, postalCode string, point *kernel.GeoPoint) (Address, error) {
	a := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setStreet(street),
		a.setCity(city),
		a.setPoint(point),
	); err != nil {
		return Address{}, err
	}

	a.postalCode = postalCode
	return a, nil
}

// Validate ensures the address was created through the constructor.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line.
func (a Address) Street() string {
	return a.street
}

// City returns the city.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code, possibly empty.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Point returns the geocoded coordinates, nil if the address was never geocoded.
func (a Address) Point() *kernel.GeoPoint {
	return a.point
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setPoint(point *kernel.GeoPoint) error {
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	a.point = point
	return nil
}
