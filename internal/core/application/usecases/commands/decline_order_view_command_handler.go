package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/access"
)

// DeclineOrderViewCommandHandler records a courier's decline of an
// available order. Nothing is persisted and the order is untouched; the
// handler emits an audit log entry and the client filters the order out of
// its own available list for the rest of the session.
type DeclineOrderViewCommandHandler struct {
	policy access.Policy
	logger *slog.Logger
}

// NewDeclineOrderViewCommandHandler creates a handler for decline requests.
func NewDeclineOrderViewCommandHandler(policy access.Policy, logger *slog.Logger) DeclineOrderViewCommandHandler {
	return DeclineOrderViewCommandHandler{
		policy: policy,
		logger: logger,
	}
}

// Handle processes the decline.
func (h *DeclineOrderViewCommandHandler) Handle(_ context.Context, cmd DeclineOrderViewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.policy.CanClaim(cmd.Principal()); err != nil {
		return err
	}

	h.logger.Info("courier declined order view",
		"order_id", cmd.OrderID().String(),
		"courier_id", cmd.Principal().ID().String(),
	)

	return nil
}
