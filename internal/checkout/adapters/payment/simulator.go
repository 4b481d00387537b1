// Package payment provides the simulated payment gateway. There is no real
// processor behind it: each authorization draws one uniform value and maps it
// onto an approved/declined/failed outcome.
package payment

import (
	"context"
	"math/rand"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

const (
	approvedBelow = 0.7
	declinedBelow = 0.9
)

// Simulator implements ports.PaymentGateway with a random three-way outcome:
// [0, 0.7) approved, [0.7, 0.9) declined, [0.9, 1) failed. The boundaries are
// half-open so every draw maps to exactly one outcome.
type Simulator struct {
	random func() float64
}

type Option func(*Simulator)

// WithRandomSource replaces the uniform source, letting tests force each
// outcome deterministically.
func WithRandomSource(random func() float64) Option {
	return func(s *Simulator) {
		s.random = random
	}
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{random: rand.Float64}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Authorize(_ context.Context, _ string, _ int64) (domain.PaymentOutcome, error) {
	r := s.random()
	switch {
	case r < approvedBelow:
		return domain.OutcomeApproved, nil
	case r < declinedBelow:
		return domain.OutcomeDeclined, nil
	default:
		return domain.OutcomeFailed, nil
	}
}
