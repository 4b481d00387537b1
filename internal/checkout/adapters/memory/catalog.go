package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// Catalog is an in-memory product catalog and inventory ledger. The stock
// check and decrement happen under one lock, so concurrent reservations
// against the same product can never drive stock negative.
type Catalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

// NewCatalog constructs a catalog seeded with the given products.
func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// FindByIDs returns the products matching the requested ids. Missing ids are
// absent from the result.
func (c *Catalog) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// Reserve checks and decrements stock as one step.
func (c *Catalog) Reserve(_ context.Context, productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	if product.StockQuantity < quantity {
		return fmt.Errorf("%w: product %s has %d, requested %d",
			ports.ErrInsufficientStock, productID, product.StockQuantity, quantity)
	}
	product.StockQuantity -= quantity
	product.UpdatedAt = time.Now().UTC()
	c.products[productID] = product
	return nil
}

// Release returns reserved stock to the product.
func (c *Catalog) Release(_ context.Context, productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	product.StockQuantity += quantity
	product.UpdatedAt = time.Now().UTC()
	c.products[productID] = product
	return nil
}

// Stock reports the current stock quantity for a product. Test helper.
func (c *Catalog) Stock(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[productID].StockQuantity
}
