package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

func validOrder() domain.Order {
	return domain.Order{
		ID:            "order-1",
		UserID:        "user-1",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		AddressID:     "addr-1",
		Items: []domain.LineItem{
			{ProductID: "prod-1", Quantity: 2, UnitPriceCents: 10000},
		},
		SubtotalCents:    20000,
		DiscountCents:    0,
		DeliveryFeeCents: 1000,
		TotalAmountCents: 21000,
		Status:           domain.OrderPending,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Order)
		anyErr  bool
		wantErr error
	}{
		{
			name:   "valid order",
			mutate: func(*domain.Order) {},
		},
		{
			name:   "missing customer name",
			mutate: func(o *domain.Order) { o.CustomerName = "   " },
			anyErr: true,
		},
		{
			name:   "missing email",
			mutate: func(o *domain.Order) { o.CustomerEmail = "" },
			anyErr: true,
		},
		{
			name:   "invalid email format",
			mutate: func(o *domain.Order) { o.CustomerEmail = "notanemail" },
			anyErr: true,
		},
		{
			name:    "empty cart",
			mutate:  func(o *domain.Order) { o.Items = nil },
			wantErr: domain.ErrEmptyCart,
		},
		{
			name: "negative quantity",
			mutate: func(o *domain.Order) {
				o.Items[0].Quantity = -1
			},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name: "zero quantity",
			mutate: func(o *domain.Order) {
				o.Items[0].Quantity = 0
			},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name: "negative discount",
			mutate: func(o *domain.Order) {
				o.DiscountCents = -1
			},
			wantErr: domain.ErrInvalidDiscount,
		},
		{
			name: "discount above subtotal",
			mutate: func(o *domain.Order) {
				o.DiscountCents = o.SubtotalCents + 1
			},
			wantErr: domain.ErrInvalidDiscount,
		},
		{
			name: "zero total",
			mutate: func(o *domain.Order) {
				o.TotalAmountCents = 0
			},
			wantErr: domain.ErrInvalidTotal,
		},
		{
			name: "total does not match components",
			mutate: func(o *domain.Order) {
				o.TotalAmountCents = 99999
			},
			wantErr: domain.ErrInvalidTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(&order)

			err := order.Validate()
			switch {
			case tt.wantErr == nil && !tt.anyErr:
				if err != nil {
					t.Errorf("Order.Validate() error = %v, want nil", err)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("Order.Validate() error = nil, want error")
				}
			default:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Order.Validate() error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestOrderDiscountEqualToSubtotalIsAllowed(t *testing.T) {
	order := validOrder()
	order.DiscountCents = order.SubtotalCents
	order.TotalAmountCents = order.DeliveryFeeCents

	if err := order.Validate(); err != nil {
		t.Errorf("Order.Validate() error = %v, want nil", err)
	}
}

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OrderStatus
		want   bool
	}{
		{"processing is terminal", domain.OrderProcessing, true},
		{"payment_declined is terminal", domain.OrderPaymentDeclined, true},
		{"payment_failed is terminal", domain.OrderPaymentFailed, true},
		{"pending is not terminal", domain.OrderPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{Status: tt.status}
			if got := order.IsTerminal(); got != tt.want {
				t.Errorf("Order.IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderTransitionTo(t *testing.T) {
	t.Run("pending moves to any terminal status", func(t *testing.T) {
		for _, status := range []domain.OrderStatus{
			domain.OrderProcessing,
			domain.OrderPaymentDeclined,
			domain.OrderPaymentFailed,
		} {
			order := validOrder()
			if err := order.TransitionTo(status); err != nil {
				t.Errorf("TransitionTo(%s) error = %v, want nil", status, err)
			}
			if order.Status != status {
				t.Errorf("order.Status = %s, want %s", order.Status, status)
			}
		}
	})

	t.Run("terminal orders reject further transitions", func(t *testing.T) {
		order := validOrder()
		order.Status = domain.OrderProcessing

		err := order.TransitionTo(domain.OrderPaymentFailed)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("TransitionTo() error = %v, want %v", err, domain.ErrInvalidTransition)
		}
		if order.Status != domain.OrderProcessing {
			t.Errorf("order.Status = %s, want unchanged processing", order.Status)
		}
	})

	t.Run("pending is not a valid target", func(t *testing.T) {
		order := validOrder()
		if err := order.TransitionTo(domain.OrderPending); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("TransitionTo(pending) error = %v, want %v", err, domain.ErrInvalidTransition)
		}
	})
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.LineItem
		want  int64
	}{
		{"empty cart", nil, 0},
		{
			"single item",
			[]domain.LineItem{{ProductID: "p1", Quantity: 3, UnitPriceCents: 500}},
			1500,
		},
		{
			"multiple items",
			[]domain.LineItem{
				{ProductID: "p1", Quantity: 2, UnitPriceCents: 10000},
				{ProductID: "p2", Quantity: 1, UnitPriceCents: 2500},
			},
			22500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Subtotal(tt.items); got != tt.want {
				t.Errorf("Subtotal() = %d, want %d", got, tt.want)
			}
		})
	}
}
