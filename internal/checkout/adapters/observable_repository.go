package adapters

import (
	"context"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
	"github.com/nextcart/storefront/internal/database"
	"github.com/nextcart/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("operation", "create_order"),
	)

	start := time.Now()
	err := r.repo.CreateOrder(ctx, order)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "create_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableRepository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.CreatePayment")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", payment.OrderID),
		attribute.String("operation", "create_payment"),
	)

	start := time.Now()
	err := r.repo.CreatePayment(ctx, payment)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "create_payment", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetOrderByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "get_order_by_id"),
	)

	start := time.Now()
	order, err := r.repo.GetOrderByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_order_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetPaymentByOrderID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("operation", "get_payment_by_order_id"),
	)

	start := time.Now()
	payment, err := r.repo.GetPaymentByOrderID(ctx, orderID)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_payment_by_order_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return payment, nil
}

func (r *ObservableRepository) FinalizeOrder(ctx context.Context, orderID string, status domain.OrderStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.FinalizeOrder")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("order.new_status", string(status)),
		attribute.String("operation", "finalize_order"),
	)

	start := time.Now()
	err := r.repo.FinalizeOrder(ctx, orderID, status)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "finalize_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
