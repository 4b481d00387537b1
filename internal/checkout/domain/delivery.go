package domain

import (
	"errors"
	"fmt"
)

// DeliveryMethod is one of the fixed shipping options offered at checkout.
type DeliveryMethod string

const (
	DeliveryNormal  DeliveryMethod = "normal"
	DeliveryExpress DeliveryMethod = "express"
	DeliveryFast    DeliveryMethod = "fast"
)

var ErrInvalidDeliveryMethod = errors.New("invalid delivery method")

// deliveryFees holds the flat delivery fee per method, in cents.
var deliveryFees = map[DeliveryMethod]int64{
	DeliveryNormal:  1000,
	DeliveryExpress: 1000,
	DeliveryFast:    4000,
}

// DeliveryFee returns the flat fee for a delivery method, rejecting anything
// outside the enumerated set.
func DeliveryFee(method DeliveryMethod) (int64, error) {
	fee, ok := deliveryFees[method]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, method)
	}
	return fee, nil
}
