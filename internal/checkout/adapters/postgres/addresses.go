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

// AddressStore persists per-order shipping addresses.
type AddressStore struct {
	pool *pgxpool.Pool
}

func NewAddressStore(pool *pgxpool.Pool) *AddressStore {
	return &AddressStore{pool: pool}
}

func (s *AddressStore) CreateAddress(ctx context.Context, address domain.Address) error {
	query := `
		INSERT INTO addresses (id, street, city, state, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		address.ID,
		address.Street,
		address.City,
		address.State,
		address.PostalCode,
		address.Country,
		address.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

func (s *AddressStore) GetAddressByID(ctx context.Context, id string) (*domain.Address, error) {
	query := `
		SELECT id, street, city, state, postal_code, country, created_at
		FROM addresses
		WHERE id = $1
	`

	var address domain.Address
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&address.ID,
		&address.Street,
		&address.City,
		&address.State,
		&address.PostalCode,
		&address.Country,
		&address.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select address: %w", err)
	}

	return &address, nil
}
