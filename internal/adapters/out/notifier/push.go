// Package notifier delivers push notifications through an external gateway.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const requestTimeout = 5 * time.Second

// PushGatewayNotifier posts notifications to an HTTP push gateway.
// Delivery is fire-and-forget: failures are logged and swallowed so a dead
// gateway can never fail the mutation that triggered the notification.
type PushGatewayNotifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewPushGatewayNotifier creates a notifier for the gateway at baseURL.
func NewPushGatewayNotifier(baseURL string, logger *slog.Logger) *PushGatewayNotifier {
	return &PushGatewayNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

type pushRequest struct {
	Recipient string            `json:"recipient"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// Send posts one notification. Errors are logged, never returned.
func (n *PushGatewayNotifier) Send(ctx context.Context, recipient kernel.UUID, title, body string, data map[string]string) {
	payload, err := json.Marshal(pushRequest{
		Recipient: recipient.String(),
		Title:     title,
		Body:      body,
		Data:      data,
	})
	if err != nil {
		n.logger.Warn("push notification payload marshal failed", "error", err)
		return
	}

	url := fmt.Sprintf("%s/notifications", n.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn("push notification request build failed", "error", err)
		return
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := n.client.Do(request)
	if err != nil {
		n.logger.Warn("push notification delivery failed",
			"recipient", recipient.String(),
			"error", err)
		return
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		n.logger.Warn("push gateway rejected notification",
			"recipient", recipient.String(),
			"status", response.StatusCode)
	}
}
