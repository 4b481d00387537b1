// Package mail implements the customer notification sink. Emails are
// best-effort: callers log send failures and never let them affect order
// processing.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/nextcart/storefront/internal/checkout/domain"
)

// SMTPConfig carries the connection settings for the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends order outcome emails through an SMTP relay.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier returns a notifier backed by the configured relay.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendOrderConfirmation(ctx context.Context, order domain.Order, products []domain.Product) error {
	body, err := ConfirmationBody(order, products)
	if err != nil {
		return err
	}
	return n.send(ctx, order.CustomerEmail, ConfirmationSubject, body)
}

func (n *SMTPNotifier) SendOrderFailure(ctx context.Context, order domain.Order, reason string) error {
	body, err := FailureBody(order, reason)
	if err != nil {
		return err
	}
	return n.send(ctx, order.CustomerEmail, FailureSubject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		n.cfg.From, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
