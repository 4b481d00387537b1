package ports

import (
	"context"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

// PaymentGateway authorizes a payment for an order. The production adapter is
// a simulator; the port keeps the random source out of the workflow so tests
// can force each outcome.
type PaymentGateway interface {
	Authorize(ctx context.Context, orderID string, amountCents int64) (domain.PaymentOutcome, error)
}
