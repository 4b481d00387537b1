package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OrderStatus captures the lifecycle of an order. Orders are created pending
// and move exactly once to one of the terminal statuses.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderProcessing      OrderStatus = "processing"
	OrderPaymentDeclined OrderStatus = "payment_declined"
	OrderPaymentFailed   OrderStatus = "payment_failed"
)

// LineItem is one product entry within an order. The unit price is snapshotted
// from the catalog at order time, never taken from client input.
type LineItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Order represents a checkout request persisted by the fulfillment workflow.
type Order struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	CustomerName     string      `json:"customer_name"`
	CustomerEmail    string      `json:"customer_email"`
	AddressID        string      `json:"address_id"`
	Items            []LineItem  `json:"items"`
	SubtotalCents    int64       `json:"subtotal_cents"`
	DiscountCents    int64       `json:"discount_cents"`
	DeliveryFeeCents int64       `json:"delivery_fee_cents"`
	TotalAmountCents int64       `json:"total_amount_cents"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

var (
	ErrEmptyCart         = errors.New("cart must contain at least one item")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidDiscount   = errors.New("discount must be between zero and the cart subtotal")
	ErrInvalidTotal      = errors.New("order total must be positive")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return errors.New("customer_name is required")
	}
	if strings.TrimSpace(o.CustomerEmail) == "" {
		return errors.New("customer_email is required")
	}
	if !strings.Contains(o.CustomerEmail, "@") {
		return errors.New("customer_email must be valid")
	}
	if len(o.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
	}
	if o.DiscountCents < 0 || o.DiscountCents > o.SubtotalCents {
		return ErrInvalidDiscount
	}
	if o.TotalAmountCents <= 0 {
		return ErrInvalidTotal
	}
	if got := o.SubtotalCents - o.DiscountCents + o.DeliveryFeeCents; got != o.TotalAmountCents {
		return fmt.Errorf("%w: total %d does not match computed %d", ErrInvalidTotal, o.TotalAmountCents, got)
	}
	return nil
}

// IsTerminal indicates whether the order has reached a terminal status.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case OrderProcessing, OrderPaymentDeclined, OrderPaymentFailed:
		return true
	default:
		return false
	}
}

// TransitionTo moves the order to the given status. Only the single
// pending-to-terminal transition is permitted.
func (o *Order) TransitionTo(status OrderStatus) error {
	if o.Status != OrderPending {
		return fmt.Errorf("%w: order %s is already %s", ErrInvalidTransition, o.ID, o.Status)
	}
	switch status {
	case OrderProcessing, OrderPaymentDeclined, OrderPaymentFailed:
	default:
		return fmt.Errorf("%w: %s is not a terminal status", ErrInvalidTransition, status)
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Subtotal computes the line item sum using the snapshotted unit prices.
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.UnitPriceCents * int64(item.Quantity)
	}
	return sum
}
