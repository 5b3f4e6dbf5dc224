package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ecommerce-platform/internal/notification-service/mailer"
	"ecommerce-platform/internal/pkg/bus"
)

// Notifier holds the notification handlers. RegisterAll wires them onto a
// dispatcher.
type Notifier struct {
	mail mailer.Sender
}

func NewNotifier(mail mailer.Sender) *Notifier {
	return &Notifier{mail: mail}
}

// RegisterAll subscribes the notifier to every topic it reacts to.
func (n *Notifier) RegisterAll(d *Dispatcher) {
	d.Register("client.created", n.HandleClientCreated)
	d.Register("order.created", n.HandleOrderCreated)
	d.Register("order.status.updated", n.HandleOrderStatusUpdated)
	d.Register("order.cancelled", n.HandleOrderCancelled)
	d.Register("payment.processed", n.HandlePaymentProcessed)
	d.Register("payment.failed", n.HandlePaymentFailed)
	d.Register("invoice.generated", n.HandleInvoiceGenerated)
}

// HandleClientCreated sends the welcome email to a new client.
func (n *Notifier) HandleClientCreated(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode client.created: %w", err)
	}

	body := fmt.Sprintf("Hi %s,\n\nWelcome aboard! Your account is ready.\n", data.FirstName)
	if err := n.mail.Send(ctx, data.Email, "Welcome!", body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "welcome email sent", "client_id", data.ID)
	return nil
}

// HandleOrderCreated logs the confirmation. The event carries no contact
// address, so there is nothing to email yet.
func (n *Notifier) HandleOrderCreated(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID          string  `json:"id"`
		OrderNumber string  `json:"orderNumber"`
		ClientID    string  `json:"clientId"`
		Total       float64 `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode order.created: %w", err)
	}
	slog.InfoContext(ctx, "order confirmation recorded",
		"order_id", data.ID, "order_number", data.OrderNumber, "client_id", data.ClientID)
	return nil
}

func (n *Notifier) HandleOrderStatusUpdated(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode order.status.updated: %w", err)
	}
	slog.InfoContext(ctx, "order status notification recorded",
		"order_id", data.ID, "status", data.Status)
	return nil
}

func (n *Notifier) HandleOrderCancelled(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode order.cancelled: %w", err)
	}
	slog.InfoContext(ctx, "order cancellation notification recorded", "order_id", data.ID)
	return nil
}

func (n *Notifier) HandlePaymentProcessed(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID      string  `json:"id"`
		OrderID string  `json:"orderId"`
		Amount  float64 `json:"amount"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode payment.processed: %w", err)
	}
	slog.InfoContext(ctx, "payment receipt recorded",
		"payment_id", data.ID, "order_id", data.OrderID, "amount", data.Amount)
	return nil
}

func (n *Notifier) HandlePaymentFailed(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID      string `json:"id"`
		OrderID string `json:"orderId"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode payment.failed: %w", err)
	}
	slog.WarnContext(ctx, "payment failure notification recorded",
		"payment_id", data.ID, "order_id", data.OrderID, "reason", data.Reason)
	return nil
}

func (n *Notifier) HandleInvoiceGenerated(ctx context.Context, env bus.Envelope) error {
	var data struct {
		ID            string `json:"id"`
		OrderID       string `json:"orderId"`
		InvoiceNumber string `json:"invoiceNumber"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode invoice.generated: %w", err)
	}
	slog.InfoContext(ctx, "invoice notification recorded",
		"invoice_id", data.ID, "order_id", data.OrderID, "invoice_number", data.InvoiceNumber)
	return nil
}
