package mail

import (
	"context"
	"log/slog"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

// NoopNotifier logs outcome emails without sending them. Useful for local dev
// before an SMTP relay is configured.
type NoopNotifier struct{}

// NewNoopNotifier returns a new no-op notifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) SendOrderConfirmation(_ context.Context, order domain.Order, _ []domain.Product) error {
	slog.Debug("mail::order_confirmation", "order_id", order.ID, "to", order.CustomerEmail)
	return nil
}

func (n *NoopNotifier) SendOrderFailure(_ context.Context, order domain.Order, reason string) error {
	slog.Debug("mail::order_failure", "order_id", order.ID, "to", order.CustomerEmail, "reason", reason)
	return nil
}
