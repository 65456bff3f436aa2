package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber generates a sequential-ish, human-readable order number,
// e.g. "ORD-1756640461000-4821". The millisecond prefix keeps numbers roughly
// ordered by creation time; the random suffix disambiguates checkouts landing
// in the same millisecond. Uniqueness is ultimately enforced by the storage
// layer's unique index on the number column.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", now.UnixMilli(), rand.IntN(10000)) //nolint:gosec // not a secret
}
