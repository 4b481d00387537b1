package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/metrics"
	"github.com/nextcart/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderPlacementDuration(ctx, duration)
		o.metrics.RecordOrderPlaced(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"customer_email", cmd.CustomerEmail,
		"items", len(cmd.Items),
		"delivery_method", string(cmd.DeliveryMethod),
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"customer_email", cmd.CustomerEmail,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.customer_email", order.CustomerEmail),
		attribute.Int64("order.total_amount_cents", order.TotalAmountCents),
		attribute.String("order.status", string(order.Status)),
	)

	o.metrics.RecordPaymentOutcome(ctx, string(order.Status))

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"status", string(order.Status),
		"total_amount_cents", order.TotalAmountCents,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
