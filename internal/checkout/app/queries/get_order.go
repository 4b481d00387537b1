package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// GetOrderQuery represents a request to retrieve an order by its ID.
type GetOrderQuery struct {
	OrderID string
}

// OrderDetails is the merged read model: the order together with its payment
// record and shipping address.
type OrderDetails struct {
	Order   domain.Order   `json:"order"`
	Payment domain.Payment `json:"payment"`
	Address domain.Address `json:"address"`
}

// GetOrderQueryHandler executes GetOrderQuery and returns the merged view.
type GetOrderQueryHandler struct {
	orders    ports.OrderRepository
	addresses ports.AddressStore
}

// NewGetOrderQueryHandler constructs a GetOrderQueryHandler.
func NewGetOrderQueryHandler(orders ports.OrderRepository, addresses ports.AddressStore) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{orders: orders, addresses: addresses}
}

// Handle fetches the order, its payment, and its address. A missing payment
// or address surfaces as not found, matching the write workflow that always
// creates all three.
func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	order, err := h.orders.GetOrderByID(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}

	payment, err := h.orders.GetPaymentByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	address, err := h.addresses.GetAddressByID(ctx, order.AddressID)
	if err != nil {
		return nil, err
	}

	return &OrderDetails{
		Order:   *order,
		Payment: *payment,
		Address: *address,
	}, nil
}

// Validate ensures the query has valid parameters.
func (q GetOrderQuery) Validate() error {
	if strings.TrimSpace(q.OrderID) == "" {
		return errors.New("order_id is required")
	}
	return nil
}
