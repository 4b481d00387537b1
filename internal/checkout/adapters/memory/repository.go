package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// Repository provides an in-memory order, payment, and address store useful
// for local development and tests.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]domain.Order
	payments  map[string]domain.Payment
	addresses map[string]domain.Address
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		orders:    make(map[string]domain.Order),
		payments:  make(map[string]domain.Payment),
		addresses: make(map[string]domain.Address),
	}
}

// CreateOrder stores a new order instance.
func (r *Repository) CreateOrder(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

// CreatePayment stores the payment paired with an order.
func (r *Repository) CreatePayment(_ context.Context, payment domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.OrderID] = payment
	return nil
}

// GetOrderByID fetches a single order by identifier.
func (r *Repository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := order
	return &copy, nil
}

// GetPaymentByOrderID fetches the payment paired with an order.
func (r *Repository) GetPaymentByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := payment
	return &copy, nil
}

// FinalizeOrder moves a pending order and its payment to the matching
// terminal pair. Orders already finalized are left untouched.
func (r *Repository) FinalizeOrder(_ context.Context, orderID string, status domain.OrderStatus) error {
	paired, err := domain.PairedPaymentStatus(status)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Status != domain.OrderPending {
		return fmt.Errorf("%w: order %s is %s", ports.ErrOrderFinalized, orderID, order.Status)
	}
	payment, ok := r.payments[orderID]
	if !ok {
		return ports.ErrNotFound
	}

	now := time.Now().UTC()
	order.Status = status
	order.UpdatedAt = now
	payment.Status = paired
	payment.UpdatedAt = now

	r.orders[orderID] = order
	r.payments[orderID] = payment
	return nil
}

// CreateAddress stores a shipping address record.
func (r *Repository) CreateAddress(_ context.Context, address domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[address.ID] = address
	return nil
}

// GetAddressByID fetches an address by identifier.
func (r *Repository) GetAddressByID(_ context.Context, id string) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	address, ok := r.addresses[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := address
	return &copy, nil
}
