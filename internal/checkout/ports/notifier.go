package ports

import (
	"context"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

// Notifier sends customer-facing emails about order outcomes. Sends are
// best-effort: the workflow logs failures and never lets them affect order
// correctness.
type Notifier interface {
	// SendOrderConfirmation notifies the customer that payment went through
	// and the order is being processed. Products carry the catalog names for
	// the line items.
	SendOrderConfirmation(ctx context.Context, order domain.Order, products []domain.Product) error
	// SendOrderFailure notifies the customer that the order could not be
	// completed, with a human-readable reason.
	SendOrderFailure(ctx context.Context, order domain.Order, reason string) error
}
