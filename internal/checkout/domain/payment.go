package domain

import (
	"fmt"
	"time"
)

// PaymentStatus mirrors the order lifecycle on the payment side.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentDeclined PaymentStatus = "declined"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is the 1:1 payment record paired with an order. Its amount equals
// the order total at creation and its status is driven by the same workflow
// step that finalizes the order.
type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	Method      string        `json:"payment_method"`
	AmountCents int64         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PaymentOutcome is the three-way result of a payment authorization attempt.
type PaymentOutcome string

const (
	OutcomeApproved PaymentOutcome = "approved"
	OutcomeDeclined PaymentOutcome = "declined"
	OutcomeFailed   PaymentOutcome = "failed"
)

// statusPairs holds the only legal terminal (order, payment) combinations.
var statusPairs = map[OrderStatus]PaymentStatus{
	OrderProcessing:      PaymentApproved,
	OrderPaymentDeclined: PaymentDeclined,
	OrderPaymentFailed:   PaymentFailed,
}

// PairedPaymentStatus returns the payment status matching a terminal order
// status. Order and payment always land in a matching pair.
func PairedPaymentStatus(status OrderStatus) (PaymentStatus, error) {
	paired, ok := statusPairs[status]
	if !ok {
		return "", fmt.Errorf("%w: no payment status pairs with order status %s", ErrInvalidTransition, status)
	}
	return paired, nil
}

// TerminalStatuses maps an authorization outcome onto the matching terminal
// (order, payment) status pair.
func TerminalStatuses(outcome PaymentOutcome) (OrderStatus, PaymentStatus) {
	switch outcome {
	case OutcomeApproved:
		return OrderProcessing, PaymentApproved
	case OutcomeDeclined:
		return OrderPaymentDeclined, PaymentDeclined
	default:
		return OrderPaymentFailed, PaymentFailed
	}
}

// IsTerminal indicates whether the payment has reached a terminal status.
func (p Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentApproved, PaymentDeclined, PaymentFailed:
		return true
	default:
		return false
	}
}
