package adapters

import (
	"context"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
	"github.com/nextcart/storefront/internal/mail"
	"github.com/nextcart/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableNotifier struct {
	notifier ports.Notifier
	metrics  *mail.Metrics
}

func NewObservableNotifier(notifier ports.Notifier, metrics *mail.Metrics) *ObservableNotifier {
	return &ObservableNotifier{
		notifier: notifier,
		metrics:  metrics,
	}
}

func (n *ObservableNotifier) SendOrderConfirmation(ctx context.Context, order domain.Order, products []domain.Product) error {
	ctx, span := telemetry.StartSpan(ctx, "Notifier.SendOrderConfirmation")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("mail.kind", "order_confirmation"),
	)

	start := time.Now()
	err := n.notifier.SendOrderConfirmation(ctx, order, products)
	duration := time.Since(start).Seconds()

	n.metrics.RecordSend(ctx, "order_confirmation", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (n *ObservableNotifier) SendOrderFailure(ctx context.Context, order domain.Order, reason string) error {
	ctx, span := telemetry.StartSpan(ctx, "Notifier.SendOrderFailure")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("mail.kind", "order_failure"),
		attribute.String("mail.reason", reason),
	)

	start := time.Now()
	err := n.notifier.SendOrderFailure(ctx, order, reason)
	duration := time.Since(start).Seconds()

	n.metrics.RecordSend(ctx, "order_failure", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
