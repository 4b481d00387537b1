package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersPlacedTotal        metric.Int64Counter
	orderPlacementDuration   metric.Float64Histogram
	paymentOutcomesTotal     metric.Int64Counter
	stockReservationFailures metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersPlacedTotal, err = meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_placed_total counter: %w", err)
	}

	m.orderPlacementDuration, err = meter.Float64Histogram(
		"order_placement_duration_seconds",
		metric.WithDescription("Duration of the order placement workflow"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_placement_duration histogram: %w", err)
	}

	m.paymentOutcomesTotal, err = meter.Int64Counter(
		"payment_outcomes_total",
		metric.WithDescription("Payment authorization outcomes"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_outcomes_total counter: %w", err)
	}

	m.stockReservationFailures, err = meter.Int64Counter(
		"stock_reservation_failures_total",
		metric.WithDescription("Stock reservations rejected for insufficient inventory"),
		metric.WithUnit("{reservation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create stock_reservation_failures counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderPlaced(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersPlacedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordOrderPlacementDuration(ctx context.Context, durationSeconds float64) {
	m.orderPlacementDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPaymentOutcome(ctx context.Context, outcome string) {
	m.paymentOutcomesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordStockReservationFailure(ctx context.Context, productID string) {
	m.stockReservationFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product_id", productID),
	))
}
