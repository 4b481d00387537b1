package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// Catalog provides product lookups and the inventory ledger. The reservation
// is one conditional UPDATE, so the stock check and decrement are a single
// atomic step: two concurrent reservations can never both pass a stale check.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `
		SELECT id, name, base_price_cents, stock_quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := c.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePriceCents, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (c *Catalog) Reserve(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2
	`

	result, err := c.pool.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := c.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return fmt.Errorf("check product existence: %w", err)
	}
	if !exists {
		return ports.ErrNotFound
	}
	return fmt.Errorf("%w: product %s, requested %d", ports.ErrInsufficientStock, productID, quantity)
}

func (c *Catalog) Release(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1
	`

	result, err := c.pool.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}
