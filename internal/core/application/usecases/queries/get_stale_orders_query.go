package queries

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStaleOrdersQueryIsNotConstructed = errors.New(
	"GetStaleOrdersQuery must be created via NewGetStaleOrdersQuery constructor",
)

// GetStaleOrdersQuery finds orders stuck in the two states where waiting is
// somebody's problem: ready without a courier, and in transit for too long.
// The watchdog job runs it on an interval and logs the result; nothing in
// the system expires or reassigns these orders automatically.
type GetStaleOrdersQuery struct { //nolint:recvcheck //using for validation
	readyAge   time.Duration
	transitAge time.Duration

	guard guard.ConstructorGuard
}

// NewGetStaleOrdersQuery creates a stale-orders query. Both ages must be
// positive: an order counts as stale once it has sat in the state longer
// than the corresponding age.
func NewGetStaleOrdersQuery(readyAge, transitAge time.Duration) (GetStaleOrdersQuery, error) {
	q := GetStaleOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setReadyAge(readyAge),
		q.setTransitAge(transitAge),
	); err != nil {
		return GetStaleOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetStaleOrdersQueryIsNotConstructed if validation fails.
func (q GetStaleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleOrdersQueryIsNotConstructed)
}

// ReadyAge returns the threshold for unclaimed ready orders.
func (q GetStaleOrdersQuery) ReadyAge() time.Duration {
	return q.readyAge
}

// TransitAge returns the threshold for in-transit orders.
func (q GetStaleOrdersQuery) TransitAge() time.Duration {
	return q.transitAge
}

func (q *GetStaleOrdersQuery) setReadyAge(age time.Duration) error {
	if age <= 0 {
		return errs.NewValueIsInvalidError("ready age")
	}

	q.readyAge = age
	return nil
}

func (q *GetStaleOrdersQuery) setTransitAge(age time.Duration) error {
	if age <= 0 {
		return errs.NewValueIsInvalidError("transit age")
	}

	q.transitAge = age
	return nil
}

// StaleOrderView is one stuck order as reported by the watchdog.
type StaleOrderView struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}
