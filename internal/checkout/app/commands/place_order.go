package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

// CartItem is one product reference in an incoming checkout request. A zero
// quantity means the client omitted it and defaults to 1.
type CartItem struct {
	ProductID string
	Quantity  int
}

// PlaceOrderCommand carries everything needed to run the fulfillment workflow.
type PlaceOrderCommand struct {
	UserID         string
	CustomerName   string
	CustomerEmail  string
	Street         string
	City           string
	State          string
	PostalCode     string
	Country        string
	Items          []CartItem
	PaymentMethod  string
	DeliveryMethod domain.DeliveryMethod
	DiscountCents  int64
}

// Validate rejects malformed commands before any record is persisted.
func (c PlaceOrderCommand) Validate() error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return errors.New("customer_name is required")
	}
	if strings.TrimSpace(c.CustomerEmail) == "" {
		return errors.New("customer_email is required")
	}
	if !strings.Contains(c.CustomerEmail, "@") {
		return errors.New("customer_email must be valid")
	}
	if strings.TrimSpace(c.PaymentMethod) == "" {
		return errors.New("payment_method is required")
	}
	if len(c.Items) == 0 {
		return domain.ErrEmptyCart
	}
	for _, item := range c.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return errors.New("product id is required")
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, item.ProductID)
		}
	}
	if c.DiscountCents < 0 {
		return domain.ErrInvalidDiscount
	}
	if _, err := domain.DeliveryFee(c.DeliveryMethod); err != nil {
		return err
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

// PlaceOrderCommandHandler orchestrates the full fulfillment workflow: address
// creation, server-side pricing, payment authorization, stock reservation with
// compensation, and the single pending-to-terminal status transition.
type PlaceOrderCommandHandler struct {
	orders    ports.OrderRepository
	addresses ports.AddressStore
	catalog   ports.ProductCatalog
	gateway   ports.PaymentGateway
	notifier  ports.Notifier
	logger    *slog.Logger
}

func NewPlaceOrderCommandHandler(
	orders ports.OrderRepository,
	addresses ports.AddressStore,
	catalog ports.ProductCatalog,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	logger *slog.Logger,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		orders:    orders,
		addresses: addresses,
		catalog:   catalog,
		gateway:   gateway,
		notifier:  notifier,
		logger:    logger,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Validate already confirmed the method is known.
	deliveryFee, _ := domain.DeliveryFee(cmd.DeliveryMethod)

	items, products, err := h.priceCart(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	subtotal := domain.Subtotal(items)
	if cmd.DiscountCents > subtotal {
		return nil, domain.ErrInvalidDiscount
	}
	total := subtotal - cmd.DiscountCents + deliveryFee
	if total <= 0 {
		return nil, domain.ErrInvalidTotal
	}

	now := time.Now().UTC()

	address := domain.Address{
		ID:         uuid.NewString(),
		Street:     cmd.Street,
		City:       cmd.City,
		State:      cmd.State,
		PostalCode: cmd.PostalCode,
		Country:    cmd.Country,
		CreatedAt:  now,
	}
	if err := h.addresses.CreateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	order := domain.Order{
		ID:               uuid.NewString(),
		UserID:           cmd.UserID,
		CustomerName:     cmd.CustomerName,
		CustomerEmail:    cmd.CustomerEmail,
		AddressID:        address.ID,
		Items:            items,
		SubtotalCents:    subtotal,
		DiscountCents:    cmd.DiscountCents,
		DeliveryFeeCents: deliveryFee,
		TotalAmountCents: total,
		Status:           domain.OrderPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := h.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	payment := domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		Method:      cmd.PaymentMethod,
		AmountCents: total,
		Status:      domain.PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.orders.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	outcome, err := h.gateway.Authorize(ctx, order.ID, total)
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}

	if outcome == domain.OutcomeApproved {
		if reserveErr := h.reserveItems(ctx, order.Items); reserveErr != nil {
			if err := h.finalize(ctx, &order, domain.OrderPaymentFailed); err != nil {
				return nil, errors.Join(reserveErr, err)
			}
			h.notifyFailure(ctx, order, "One or more items in your order are out of stock.")
			return nil, reserveErr
		}
		if err := h.finalize(ctx, &order, domain.OrderProcessing); err != nil {
			return nil, err
		}
		h.notifySuccess(ctx, order, products)
		return &order, nil
	}

	status := domain.OrderPaymentFailed
	reason := "Your payment could not be processed."
	if outcome == domain.OutcomeDeclined {
		status = domain.OrderPaymentDeclined
		reason = "Your payment was declined."
	}
	if err := h.finalize(ctx, &order, status); err != nil {
		return nil, err
	}
	h.notifyFailure(ctx, order, reason)

	return &order, nil
}

// priceCart resolves every referenced product in one batch lookup and builds
// line items with prices snapshotted from the catalog, never from the client.
func (h *PlaceOrderCommandHandler) priceCart(ctx context.Context, cart []CartItem) ([]domain.LineItem, []domain.Product, error) {
	ids := make([]string, 0, len(cart))
	seen := make(map[string]bool, len(cart))
	for _, item := range cart {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := h.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve products: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.LineItem, 0, len(cart))
	for _, ci := range cart {
		product, ok := byID[ci.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: product %s", ports.ErrNotFound, ci.ProductID)
		}
		quantity := ci.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, domain.LineItem{
			ProductID:      product.ID,
			Quantity:       quantity,
			UnitPriceCents: product.BasePriceCents,
		})
	}

	return items, products, nil
}

// reserveItems decrements stock for every line item. If any reservation fails,
// all reservations committed so far are released before returning, so a
// partially filled order never leaks decremented stock.
func (h *PlaceOrderCommandHandler) reserveItems(ctx context.Context, items []domain.LineItem) error {
	reserved := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if err := h.catalog.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			h.releaseItems(ctx, reserved)
			return fmt.Errorf("reserve product %s: %w", item.ProductID, err)
		}
		reserved = append(reserved, item)
	}
	return nil
}

// releaseItems compensates committed reservations in reverse order.
func (h *PlaceOrderCommandHandler) releaseItems(ctx context.Context, reserved []domain.LineItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := h.catalog.Release(ctx, item.ProductID, item.Quantity); err != nil {
			h.logger.ErrorContext(ctx, "failed to release reserved stock",
				"product_id", item.ProductID,
				"quantity", item.Quantity,
				"error", err,
			)
		}
	}
}

func (h *PlaceOrderCommandHandler) finalize(ctx context.Context, order *domain.Order, status domain.OrderStatus) error {
	if err := h.orders.FinalizeOrder(ctx, order.ID, status); err != nil {
		return fmt.Errorf("finalize order %s as %s: %w", order.ID, status, err)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *PlaceOrderCommandHandler) notifySuccess(ctx context.Context, order domain.Order, products []domain.Product) {
	if err := h.notifier.SendOrderConfirmation(ctx, order, products); err != nil {
		h.logger.ErrorContext(ctx, "failed to send order confirmation email",
			"order_id", order.ID,
			"error", err,
		)
	}
}

func (h *PlaceOrderCommandHandler) notifyFailure(ctx context.Context, order domain.Order, reason string) {
	if err := h.notifier.SendOrderFailure(ctx, order, reason); err != nil {
		h.logger.ErrorContext(ctx, "failed to send order failure email",
			"order_id", order.ID,
			"error", err,
		)
	}
}
