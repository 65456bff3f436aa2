package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Notifier delivers push notifications to a participant's devices.
//
// Delivery is fire-and-forget: implementations log failures and never
// propagate them, so a dead push gateway cannot fail or roll back the
// mutation that triggered the notification.
type Notifier interface {
	Send(ctx context.Context, recipient kernel.UUID, title, body string, data map[string]string)
}
