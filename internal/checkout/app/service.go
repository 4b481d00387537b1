package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nextcart/storefront/internal/checkout/app/commands"
	"github.com/nextcart/storefront/internal/checkout/app/queries"
	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/metrics"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// Service bundles the checkout use cases exposed over the API.
type Service struct {
	placeOrderHandler commands.CommandHandler
	getOrderHandler   *queries.GetOrderQueryHandler
	idemStore         ports.IdempotencyStore
	workflowTimeout   time.Duration
}

// NewService wires required dependencies.
func NewService(
	orders ports.OrderRepository,
	addresses ports.AddressStore,
	catalog ports.ProductCatalog,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	workflowTimeout time.Duration,
) *Service {
	coreHandler := commands.NewPlaceOrderCommandHandler(orders, addresses, catalog, gateway, notifier, logger)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		placeOrderHandler: observableHandler,
		getOrderHandler:   queries.NewGetOrderQueryHandler(orders, addresses),
		idemStore:         idem,
		workflowTimeout:   workflowTimeout,
	}
}

// PlaceOrderInput captures the inbound checkout payload.
type PlaceOrderInput struct {
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	UserID         string          `json:"user_id"`
	Address        AddressInput    `json:"address"`
	Products       []CartItemInput `json:"products"`
	PaymentMethod  string          `json:"payment_method"`
	DeliveryMethod string          `json:"delivery_method"`
	DiscountCents  int64           `json:"discount_cents"`
}

type AddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CartItemInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// PlaceOrder runs the fulfillment workflow, bounded by the configured
// timeout. Records committed before a timeout are kept as-is.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if s.workflowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.workflowTimeout)
		defer cancel()
	}

	items := make([]commands.CartItem, 0, len(input.Products))
	for _, p := range input.Products {
		items = append(items, commands.CartItem{ProductID: p.ID, Quantity: p.Quantity})
	}

	cmd := commands.PlaceOrderCommand{
		UserID:         input.UserID,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		Street:         input.Address.Street,
		City:           input.Address.City,
		State:          input.Address.State,
		PostalCode:     input.Address.PostalCode,
		Country:        input.Address.Country,
		Items:          items,
		PaymentMethod:  input.PaymentMethod,
		DeliveryMethod: domain.DeliveryMethod(input.DeliveryMethod),
		DiscountCents:  input.DiscountCents,
	}
	return s.placeOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves the merged order, payment, and address view.
func (s *Service) GetOrder(ctx context.Context, id string) (*queries.OrderDetails, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
