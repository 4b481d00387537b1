package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/metrics"
	"github.com/nextcart/storefront/internal/checkout/ports"
	"github.com/nextcart/storefront/internal/database"
	"github.com/nextcart/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCatalog struct {
	catalog         ports.ProductCatalog
	dbMetrics       *database.Metrics
	checkoutMetrics *metrics.Metrics
}

func NewObservableCatalog(catalog ports.ProductCatalog, dbMetrics *database.Metrics, checkoutMetrics *metrics.Metrics) *ObservableCatalog {
	return &ObservableCatalog{
		catalog:         catalog,
		dbMetrics:       dbMetrics,
		checkoutMetrics: checkoutMetrics,
	}
}

func (c *ObservableCatalog) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProductCatalog.FindByIDs")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int("products.requested", len(ids)),
		attribute.String("operation", "find_by_ids"),
	)

	start := time.Now()
	products, err := c.catalog.FindByIDs(ctx, ids)
	duration := time.Since(start).Seconds()

	c.dbMetrics.RecordQuery(ctx, "find_products_by_ids", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("products.resolved", len(products)))
	telemetry.SetSpanSuccess(span)
	return products, nil
}

func (c *ObservableCatalog) Reserve(ctx context.Context, productID string, quantity int) error {
	ctx, span := telemetry.StartSpan(ctx, "ProductCatalog.Reserve")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
		attribute.String("operation", "reserve_stock"),
	)

	start := time.Now()
	err := c.catalog.Reserve(ctx, productID, quantity)
	duration := time.Since(start).Seconds()

	c.dbMetrics.RecordQuery(ctx, "reserve_stock", duration)

	if err != nil {
		if errors.Is(err, ports.ErrInsufficientStock) {
			c.checkoutMetrics.RecordStockReservationFailure(ctx, productID)
		}
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (c *ObservableCatalog) Release(ctx context.Context, productID string, quantity int) error {
	ctx, span := telemetry.StartSpan(ctx, "ProductCatalog.Release")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
		attribute.String("operation", "release_stock"),
	)

	start := time.Now()
	err := c.catalog.Release(ctx, productID, quantity)
	duration := time.Since(start).Seconds()

	c.dbMetrics.RecordQuery(ctx, "release_stock", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
