package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nextcart/storefront/internal/checkout/adapters/memory"
	"github.com/nextcart/storefront/internal/checkout/app/commands"
	"github.com/nextcart/storefront/internal/checkout/domain"
	"github.com/nextcart/storefront/internal/checkout/ports"
)

type stubGateway struct {
	outcome domain.PaymentOutcome
	err     error
	calls   int
}

func (g *stubGateway) Authorize(_ context.Context, _ string, _ int64) (domain.PaymentOutcome, error) {
	g.calls++
	return g.outcome, g.err
}

type recordingNotifier struct {
	confirmations []domain.Order
	failures      []domain.Order
	reasons       []string
	err           error
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, order domain.Order, _ []domain.Product) error {
	n.confirmations = append(n.confirmations, order)
	return n.err
}

func (n *recordingNotifier) SendOrderFailure(_ context.Context, order domain.Order, reason string) error {
	n.failures = append(n.failures, order)
	n.reasons = append(n.reasons, reason)
	return n.err
}

type fixture struct {
	repo     *memory.Repository
	catalog  *memory.Catalog
	gateway  *stubGateway
	notifier *recordingNotifier
	handler  *commands.PlaceOrderCommandHandler
}

func newFixture(outcome domain.PaymentOutcome, products ...domain.Product) *fixture {
	repo := memory.NewRepository()
	catalog := memory.NewCatalog(products...)
	gateway := &stubGateway{outcome: outcome}
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		repo:     repo,
		catalog:  catalog,
		gateway:  gateway,
		notifier: notifier,
		handler:  commands.NewPlaceOrderCommandHandler(repo, repo, catalog, gateway, notifier, logger),
	}
}

func validCommand() commands.PlaceOrderCommand {
	return commands.PlaceOrderCommand{
		UserID:         "user-1",
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		Street:         "1 Analytical Way",
		City:           "London",
		State:          "LDN",
		PostalCode:     "EC1",
		Country:        "UK",
		Items:          []commands.CartItem{{ProductID: "prod-1", Quantity: 2}},
		PaymentMethod:  "credit_card",
		DeliveryMethod: domain.DeliveryNormal,
	}
}

func widget() domain.Product {
	return domain.Product{ID: "prod-1", Name: "Widget", BasePriceCents: 10000, StockQuantity: 10}
}

func TestPlaceOrderApproved(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if order.Status != domain.OrderProcessing {
		t.Errorf("order status = %s, want %s", order.Status, domain.OrderProcessing)
	}
	if order.SubtotalCents != 20000 {
		t.Errorf("subtotal = %d, want 20000", order.SubtotalCents)
	}
	if order.DeliveryFeeCents != 1000 {
		t.Errorf("delivery fee = %d, want 1000", order.DeliveryFeeCents)
	}
	if order.TotalAmountCents != 21000 {
		t.Errorf("total = %d, want 21000", order.TotalAmountCents)
	}

	if got := f.catalog.Stock("prod-1"); got != 8 {
		t.Errorf("stock after reservation = %d, want 8", got)
	}

	stored, err := f.repo.GetOrderByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetOrderByID() error = %v", err)
	}
	if stored.Status != domain.OrderProcessing {
		t.Errorf("stored order status = %s, want %s", stored.Status, domain.OrderProcessing)
	}

	payment, err := f.repo.GetPaymentByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetPaymentByOrderID() error = %v", err)
	}
	if payment.Status != domain.PaymentApproved {
		t.Errorf("payment status = %s, want %s", payment.Status, domain.PaymentApproved)
	}
	if payment.AmountCents != order.TotalAmountCents {
		t.Errorf("payment amount = %d, want %d", payment.AmountCents, order.TotalAmountCents)
	}

	if len(f.notifier.confirmations) != 1 {
		t.Errorf("confirmations sent = %d, want 1", len(f.notifier.confirmations))
	}
	if len(f.notifier.failures) != 0 {
		t.Errorf("failure emails sent = %d, want 0", len(f.notifier.failures))
	}

	address, err := f.repo.GetAddressByID(context.Background(), order.AddressID)
	if err != nil {
		t.Fatalf("GetAddressByID() error = %v", err)
	}
	if address.Street != "1 Analytical Way" {
		t.Errorf("address street = %q, want %q", address.Street, "1 Analytical Way")
	}
}

func TestPlaceOrderPricesFromCatalogNotClient(t *testing.T) {
	product := widget()
	product.BasePriceCents = 3333
	f := newFixture(domain.OutcomeApproved, product)

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if order.Items[0].UnitPriceCents != 3333 {
		t.Errorf("unit price = %d, want catalog price 3333", order.Items[0].UnitPriceCents)
	}
	if order.SubtotalCents != 6666 {
		t.Errorf("subtotal = %d, want 6666", order.SubtotalCents)
	}
}

func TestPlaceOrderDeclined(t *testing.T) {
	f := newFixture(domain.OutcomeDeclined, widget())

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if order.Status != domain.OrderPaymentDeclined {
		t.Errorf("order status = %s, want %s", order.Status, domain.OrderPaymentDeclined)
	}
	payment, err := f.repo.GetPaymentByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetPaymentByOrderID() error = %v", err)
	}
	if payment.Status != domain.PaymentDeclined {
		t.Errorf("payment status = %s, want %s", payment.Status, domain.PaymentDeclined)
	}

	if got := f.catalog.Stock("prod-1"); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
	if len(f.notifier.failures) != 1 {
		t.Fatalf("failure emails sent = %d, want 1", len(f.notifier.failures))
	}
	if f.notifier.reasons[0] != "Your payment was declined." {
		t.Errorf("failure reason = %q", f.notifier.reasons[0])
	}
}

func TestPlaceOrderPaymentFailed(t *testing.T) {
	f := newFixture(domain.OutcomeFailed, widget())

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if order.Status != domain.OrderPaymentFailed {
		t.Errorf("order status = %s, want %s", order.Status, domain.OrderPaymentFailed)
	}
	payment, err := f.repo.GetPaymentByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetPaymentByOrderID() error = %v", err)
	}
	if payment.Status != domain.PaymentFailed {
		t.Errorf("payment status = %s, want %s", payment.Status, domain.PaymentFailed)
	}
	if got := f.catalog.Stock("prod-1"); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
}

func TestPlaceOrderInsufficientStockReleasesReservations(t *testing.T) {
	f := newFixture(domain.OutcomeApproved,
		domain.Product{ID: "prod-1", Name: "Widget", BasePriceCents: 10000, StockQuantity: 5},
		domain.Product{ID: "prod-2", Name: "Gadget", BasePriceCents: 2500, StockQuantity: 1},
	)

	cmd := validCommand()
	cmd.Items = []commands.CartItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 3},
	}

	order, err := f.handler.Handle(context.Background(), cmd)
	if !errors.Is(err, ports.ErrInsufficientStock) {
		t.Fatalf("Handle() error = %v, want %v", err, ports.ErrInsufficientStock)
	}
	if order != nil {
		t.Errorf("Handle() order = %+v, want nil", order)
	}

	// The first reservation must have been compensated.
	if got := f.catalog.Stock("prod-1"); got != 5 {
		t.Errorf("prod-1 stock = %d, want restored 5", got)
	}
	if got := f.catalog.Stock("prod-2"); got != 1 {
		t.Errorf("prod-2 stock = %d, want untouched 1", got)
	}

	if len(f.notifier.failures) != 1 {
		t.Fatalf("failure emails sent = %d, want 1", len(f.notifier.failures))
	}
	failed := f.notifier.failures[0]
	if failed.Status != domain.OrderPaymentFailed {
		t.Errorf("notified order status = %s, want %s", failed.Status, domain.OrderPaymentFailed)
	}

	payment, err := f.repo.GetPaymentByOrderID(context.Background(), failed.ID)
	if err != nil {
		t.Fatalf("GetPaymentByOrderID() error = %v", err)
	}
	if payment.Status != domain.PaymentFailed {
		t.Errorf("payment status = %s, want %s", payment.Status, domain.PaymentFailed)
	}
}

func TestPlaceOrderValidationLeavesNoRecords(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*commands.PlaceOrderCommand)
		wantErr error
	}{
		{
			name:    "invalid delivery method",
			mutate:  func(c *commands.PlaceOrderCommand) { c.DeliveryMethod = "teleport" },
			wantErr: domain.ErrInvalidDeliveryMethod,
		},
		{
			name:    "empty cart",
			mutate:  func(c *commands.PlaceOrderCommand) { c.Items = nil },
			wantErr: domain.ErrEmptyCart,
		},
		{
			name: "negative quantity",
			mutate: func(c *commands.PlaceOrderCommand) {
				c.Items = []commands.CartItem{{ProductID: "prod-1", Quantity: -2}}
			},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "negative discount",
			mutate:  func(c *commands.PlaceOrderCommand) { c.DiscountCents = -100 },
			wantErr: domain.ErrInvalidDiscount,
		},
		{
			name:    "discount above subtotal",
			mutate:  func(c *commands.PlaceOrderCommand) { c.DiscountCents = 50000 },
			wantErr: domain.ErrInvalidDiscount,
		},
		{
			name: "unknown product",
			mutate: func(c *commands.PlaceOrderCommand) {
				c.Items = []commands.CartItem{{ProductID: "ghost", Quantity: 1}}
			},
			wantErr: ports.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(domain.OutcomeApproved, widget())

			cmd := validCommand()
			tt.mutate(&cmd)

			order, err := f.handler.Handle(context.Background(), cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Handle() error = %v, want %v", err, tt.wantErr)
			}
			if order != nil {
				t.Errorf("Handle() order = %+v, want nil", order)
			}

			if g := f.gateway.calls; g != 0 {
				t.Errorf("gateway calls = %d, want 0", g)
			}
			if got := f.catalog.Stock("prod-1"); got != 10 {
				t.Errorf("stock = %d, want untouched 10", got)
			}
			if sent := len(f.notifier.confirmations) + len(f.notifier.failures); sent != 0 {
				t.Errorf("emails sent = %d, want 0", sent)
			}
		})
	}
}

func TestPlaceOrderZeroQuantityDefaultsToOne(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())

	cmd := validCommand()
	cmd.Items = []commands.CartItem{{ProductID: "prod-1", Quantity: 0}}

	order, err := f.handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if order.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want defaulted 1", order.Items[0].Quantity)
	}
	if got := f.catalog.Stock("prod-1"); got != 9 {
		t.Errorf("stock = %d, want 9", got)
	}
}

func TestPlaceOrderAppliesDiscount(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())

	cmd := validCommand()
	cmd.DiscountCents = 5000
	cmd.DeliveryMethod = domain.DeliveryFast

	order, err := f.handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	// 20000 - 5000 + 4000
	if order.TotalAmountCents != 19000 {
		t.Errorf("total = %d, want 19000", order.TotalAmountCents)
	}
}

func TestPlaceOrderGatewayErrorLeavesOrderPending(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())
	f.gateway.err = errors.New("gateway unavailable")

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err == nil {
		t.Fatal("Handle() error = nil, want error")
	}
	if order != nil {
		t.Errorf("Handle() order = %+v, want nil", order)
	}
	if got := f.catalog.Stock("prod-1"); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
	if sent := len(f.notifier.confirmations) + len(f.notifier.failures); sent != 0 {
		t.Errorf("emails sent = %d, want 0", sent)
	}
}

func TestPlaceOrderNotifierErrorsAreSwallowed(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())
	f.notifier.err = errors.New("smtp down")

	order, err := f.handler.Handle(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if order.Status != domain.OrderProcessing {
		t.Errorf("order status = %s, want %s", order.Status, domain.OrderProcessing)
	}
}

func TestPlaceOrderDuplicateCartLines(t *testing.T) {
	f := newFixture(domain.OutcomeApproved, widget())

	cmd := validCommand()
	cmd.Items = []commands.CartItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-1", Quantity: 3},
	}

	order, err := f.handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if len(order.Items) != 2 {
		t.Fatalf("line items = %d, want 2", len(order.Items))
	}
	if order.SubtotalCents != 50000 {
		t.Errorf("subtotal = %d, want 50000", order.SubtotalCents)
	}
	if got := f.catalog.Stock("prod-1"); got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}
}
