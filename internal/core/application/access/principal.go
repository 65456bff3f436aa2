package access

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrPrincipalIsNotConstructed = errors.New(
	"Principal must be created via NewPrincipal constructor",
)

// Principal is the authenticated actor behind a request or socket connection.
// It is resolved once by the identity middleware and passed unchanged into
// every command, query and room-join check, so authorization decisions are
// made against a single trusted value rather than raw credentials.
type Principal struct { //nolint:recvcheck //using for validation
	id   kernel.UUID
	role Role

	guard guard.ConstructorGuard
}

// NewPrincipal creates a validated principal from a resolved identity.
func NewPrincipal(id kernel.UUID, role Role) (Principal, error) {
	p := Principal{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setRole(role),
	); err != nil {
		return Principal{}, err
	}

	return p, nil
}

// Validate ensures the principal was created through the constructor.
// Returns ErrPrincipalIsNotConstructed if validation fails.
func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}

// ID returns the principal's unique identifier.
func (p Principal) ID() kernel.UUID {
	return p.id
}

// Role returns the principal's resolved role.
func (p Principal) Role() Role {
	return p.role
}

func (p *Principal) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	p.id = id
	return nil
}

func (p *Principal) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	p.role = role
	return nil
}
