package ports

import (
	"context"
	"errors"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a reservation exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderFinalized is returned when finalizing an order that already
	// reached a terminal status.
	ErrOrderFinalized = errors.New("order already finalized")
)

// OrderRepository exposes persistence for orders and their paired payments.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	CreatePayment(ctx context.Context, payment domain.Payment) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	// FinalizeOrder atomically moves a pending order and its payment to a
	// matching terminal status pair. It returns ErrOrderFinalized when the
	// order is no longer pending, so a repeated invocation is a no-op.
	FinalizeOrder(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// AddressStore creates the per-order shipping address record.
type AddressStore interface {
	CreateAddress(ctx context.Context, address domain.Address) error
	GetAddressByID(ctx context.Context, id string) (*domain.Address, error)
}

// ProductCatalog combines the read-only product lookup with the inventory
// ledger. Reserve must perform the stock check and decrement as one
// atomically consistent step per product.
type ProductCatalog interface {
	// FindByIDs returns the products matching the given ids. Missing ids are
	// simply absent from the result; callers detect them by comparing sets.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	// Reserve decrements stock by quantity if enough is available, returning
	// ErrInsufficientStock or ErrNotFound otherwise.
	Reserve(ctx context.Context, productID string, quantity int) error
	// Release returns previously reserved stock. It is the compensating
	// action for Reserve.
	Release(ctx context.Context, productID string, quantity int) error
}
