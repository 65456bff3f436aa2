package access

import (
	"fulfillment/internal/pkg/errs"
)

// Role identifies which side of an order a principal acts from.
// Every request and socket connection resolves to exactly one role.
type Role int

const (
	// RoleUnknown represents an uninitialized role (zero value).
	RoleUnknown Role = iota

	// RoleCustomer places orders, cancels its own orders and chats with the courier.
	RoleCustomer

	// RoleMerchant confirms and prepares its own orders; reads are pull-based.
	RoleMerchant

	// RoleCourier claims ready orders and drives them to delivery.
	RoleCourier
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleMerchant: "merchant",
		RoleCourier:  "courier",
	}
}

// RoleFromString converts a wire-format role name to a Role.
// Returns an error for unrecognized names.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidError("role")
}

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsRequiredError("role")
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidError("role")
	}
	return nil
}

// String returns the wire-format name of the role.
func (r Role) String() string {
	if name, ok := getRoleStrings()[r]; ok {
		return name
	}
	return "unknown"
}
