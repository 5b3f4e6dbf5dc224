// Package app implements the invoicing operations.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ecommerce-platform/internal/invoice-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
)

// Repository persists invoices.
type Repository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	Find(ctx context.Context, filter Filter) ([]domain.Invoice, error)
	Save(ctx context.Context, invoice *domain.Invoice) error
}

// Filter narrows invoice listings. Zero values match everything.
type Filter struct {
	ClientID string
	OrderID  string
}

// Order is the slice of the order record invoicing needs.
type Order struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId"`
	Total    float64 `json:"total"`
	Status   string  `json:"status"`
}

// Orders looks up orders in the orders service.
type Orders interface {
	Order(ctx context.Context, id string) (*Order, error)
}

// Service implements invoicing.
type Service struct {
	repo   Repository
	orders Orders
	events bus.Publisher
}

func NewService(repo Repository, orders Orders, events bus.Publisher) *Service {
	return &Service{repo: repo, orders: orders, events: events}
}

// GenerateInvoice snapshots the order total, applies tax, and issues a
// new invoice. Every call produces a fresh document, even for an order
// that was already invoiced.
func (s *Service) GenerateInvoice(ctx context.Context, orderID string) (*domain.Invoice, error) {
	if orderID == "" {
		return nil, apperr.Validation("orderId is required", "orderId")
	}

	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}

	subtotal := domain.Round2(order.Total)
	tax := domain.Round2(subtotal * domain.TaxRate)
	now := time.Now().UTC()

	invoice := &domain.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: domain.NewInvoiceNumber(),
		OrderID:       order.ID,
		ClientID:      order.ClientID,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         domain.Round2(subtotal + tax),
		Status:        domain.StatusIssued,
		IssuedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "invoice.generated", struct {
		ID            string  `json:"id"`
		OrderID       string  `json:"orderId"`
		InvoiceNumber string  `json:"invoiceNumber"`
		Total         float64 `json:"total"`
	}{invoice.ID, invoice.OrderID, invoice.InvoiceNumber, invoice.Total})

	slog.InfoContext(ctx, "invoice issued",
		"invoice_id", invoice.ID, "order_id", invoice.OrderID, "total", invoice.Total)
	return invoice, nil
}

// GetInvoice returns one invoice.
func (s *Service) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// ListInvoices returns invoices matching the filter, newest first.
func (s *Service) ListInvoices(ctx context.Context, filter Filter) ([]domain.Invoice, error) {
	return s.repo.Find(ctx, filter)
}

// MarkPaid moves an invoice to PAID.
func (s *Service) MarkPaid(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.setStatus(ctx, id, domain.StatusPaid)
}

// CancelInvoice moves an invoice to CANCELLED.
func (s *Service) CancelInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.setStatus(ctx, id, domain.StatusCancelled)
}

func (s *Service) setStatus(ctx context.Context, id string, status domain.Status) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = status
	invoice.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
