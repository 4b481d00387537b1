package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

var successTemplate = template.Must(template.New("order_confirmation").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2 style="color: #28a745;">Order Confirmation - Order #{{.OrderID}}</h2>
      <p>Dear {{.CustomerName}},</p>
      <p>Thank you for your order! Your payment has been processed successfully.</p>

      <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <h3>Order Details:</h3>
        <p><strong>Order ID:</strong> {{.OrderID}}</p>
        <p><strong>Status:</strong> {{.Status}}</p>
        <p><strong>Total Amount:</strong> {{.Total}}</p>
      </div>

      <div style="margin: 20px 0;">
        <h3>Products Ordered:</h3>
        <ul>
        {{- range .Items}}
          <li>{{.Name}} - Quantity: {{.Quantity}} - Price: {{.Price}}</li>
        {{- end}}
        </ul>
      </div>

      <p>Your order is now being processed and will be shipped soon. You will receive a tracking number once your order is dispatched.</p>
      <p>Thank you for shopping with us!</p>
    </div>
  </body>
</html>
`))

var failureTemplate = template.Must(template.New("order_failure").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2 style="color: #dc3545;">Order Processing Issue - Order #{{.OrderID}}</h2>
      <p>Dear {{.CustomerName}},</p>
      <p>We're sorry to inform you that there was an issue processing your order.</p>

      <div style="background-color: #f8d7da; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #dc3545;">
        <h3>Order Details:</h3>
        <p><strong>Order ID:</strong> {{.OrderID}}</p>
        <p><strong>Status:</strong> {{.Status}}</p>
        <p><strong>Issue:</strong> {{.Reason}}</p>
      </div>

      <p>Please try placing your order again, or contact our customer support if you continue to experience issues.</p>
      <p>We apologize for any inconvenience caused.</p>
    </div>
  </body>
</html>
`))

type templateItem struct {
	Name     string
	Quantity int
	Price    string
}

type successData struct {
	OrderID      string
	CustomerName string
	Status       string
	Total        string
	Items        []templateItem
}

type failureData struct {
	OrderID      string
	CustomerName string
	Status       string
	Reason       string
}

// ConfirmationSubject and FailureSubject are the subjects used for the two
// outcome emails.
const (
	ConfirmationSubject = "Order Confirmation"
	FailureSubject      = "Order Processing Issue"
)

// ConfirmationBody renders the success email listing the ordered items with
// their catalog names and snapshotted prices.
func ConfirmationBody(order domain.Order, products []domain.Product) (string, error) {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	items := make([]templateItem, 0, len(order.Items))
	for _, item := range order.Items {
		name := names[item.ProductID]
		if name == "" {
			name = "Product"
		}
		items = append(items, templateItem{
			Name:     name,
			Quantity: item.Quantity,
			Price:    formatCents(item.UnitPriceCents),
		})
	}

	var buf strings.Builder
	err := successTemplate.Execute(&buf, successData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		Total:        formatCents(order.TotalAmountCents),
		Items:        items,
	})
	if err != nil {
		return "", fmt.Errorf("render confirmation email: %w", err)
	}
	return buf.String(), nil
}

// FailureBody renders the failure email carrying a human-readable reason.
func FailureBody(order domain.Order, reason string) (string, error) {
	var buf strings.Builder
	err := failureTemplate.Execute(&buf, failureData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		Reason:       reason,
	})
	if err != nil {
		return "", fmt.Errorf("render failure email: %w", err)
	}
	return buf.String(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
