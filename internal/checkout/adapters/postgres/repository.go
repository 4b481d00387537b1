package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateOrder(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (
			id, user_id, customer_name, customer_email, address_id,
			subtotal_cents, discount_cents, delivery_fee_cents, total_amount_cents,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.AddressID,
		order.SubtotalCents,
		order.DiscountCents,
		order.DeliveryFeeCents,
		order.TotalAmountCents,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery, order.ID, i, item.ProductID, item.Quantity, item.UnitPriceCents); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

func (r *Repository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, payment_method, amount_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Method,
		payment.AmountCents,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, customer_name, customer_email, address_id,
			subtotal_cents, discount_cents, delivery_fee_cents, total_amount_cents,
			status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.AddressID,
		&order.SubtotalCents,
		&order.DiscountCents,
		&order.DeliveryFeeCents,
		&order.TotalAmountCents,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.orderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *Repository) orderItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	query := `
		SELECT product_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *Repository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, payment_method, amount_cents, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`

	var payment domain.Payment
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Method,
		&payment.AmountCents,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select payment: %w", err)
	}

	return &payment, nil
}

// FinalizeOrder updates the order and its payment to the matching terminal
// pair in one transaction. The order update is guarded by status = 'pending',
// so a second invocation finds zero rows and reports ErrOrderFinalized
// instead of overwriting a terminal state.
func (r *Repository) FinalizeOrder(ctx context.Context, orderID string, status domain.OrderStatus) error {
	paired, err := domain.PairedPaymentStatus(status)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin finalize order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderUpdate := `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`
	result, err := tx.Exec(ctx, orderUpdate, status, orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return fmt.Errorf("check order existence: %w", err)
		}
		if !exists {
			return ports.ErrNotFound
		}
		return fmt.Errorf("%w: order %s", ports.ErrOrderFinalized, orderID)
	}

	paymentUpdate := `
		UPDATE payments
		SET status = $1, updated_at = now()
		WHERE order_id = $2
	`
	result, err = tx.Exec(ctx, paymentUpdate, paired, orderID)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit finalize order: %w", err)
	}
	return nil
}
