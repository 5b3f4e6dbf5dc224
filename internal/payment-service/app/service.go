// Package app implements the payment ledger operations.
package app

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"ecommerce-platform/internal/payment-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
)

// Repository persists charge attempts, captures and declines alike.
type Repository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.Payment, error)
	Save(ctx context.Context, payment *domain.Payment) error
}

// Order is the slice of the order record the ledger needs to verify a
// charge request.
type Order struct {
	ID     string  `json:"id"`
	Total  float64 `json:"total"`
	Status string  `json:"status"`
}

// Orders looks up orders in the orders service.
type Orders interface {
	Order(ctx context.Context, id string) (*Order, error)
}

// Charger talks to the payment provider. A declined charge is a normal
// error return; the ledger persists it as a FAILED attempt.
type Charger interface {
	Charge(ctx context.Context, token string, amount float64) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string, amount float64) error
}

// Service implements the payment ledger.
type Service struct {
	repo    Repository
	orders  Orders
	charger Charger
	events  bus.Publisher
}

func NewService(repo Repository, orders Orders, charger Charger, events bus.Publisher) *Service {
	return &Service{repo: repo, orders: orders, charger: charger, events: events}
}

// ProcessPaymentInput is one charge request.
type ProcessPaymentInput struct {
	OrderID  string
	Amount   float64
	Method   string
	Token    string
	Metadata map[string]any
}

// ProcessPayment verifies the amount against the order total, records a
// PROCESSING attempt, charges the provider, and settles the row as
// COMPLETED or FAILED. Declines come back as PaymentDeclined errors with
// the attempt already persisted.
func (s *Service) ProcessPayment(ctx context.Context, in ProcessPaymentInput) (*domain.Payment, error) {
	method, err := domain.ParseMethod(in.Method)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" {
		return nil, apperr.Validation("orderId is required", "orderId")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive", "amount")
	}

	order, err := s.orders.Order(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	// Totals are rounded to cents on both sides, so exact comparison
	// after rounding is safe.
	if math.Round(in.Amount*100) != math.Round(order.Total*100) {
		return nil, apperr.Validation("amount does not match the order total", "amount")
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   in.OrderID,
		Amount:    in.Amount,
		Method:    method,
		Status:    domain.StatusProcessing,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	txnID, chargeErr := s.charger.Charge(ctx, in.Token, in.Amount)
	payment.UpdatedAt = time.Now().UTC()

	if chargeErr != nil {
		payment.Status = domain.StatusFailed
		payment.FailureReason = chargeErr.Error()
		if err := s.repo.Save(ctx, payment); err != nil {
			return nil, err
		}
		bus.Emit(ctx, s.events, "payment.failed", struct {
			ID      string `json:"id"`
			OrderID string `json:"orderId"`
			Reason  string `json:"reason"`
		}{payment.ID, payment.OrderID, payment.FailureReason})
		slog.WarnContext(ctx, "payment declined",
			"payment_id", payment.ID, "order_id", payment.OrderID, "reason", chargeErr.Error())
		return nil, apperr.Wrap(apperr.KindPaymentDeclined, chargeErr,
			"payment for order %s was declined", in.OrderID)
	}

	payment.Status = domain.StatusCompleted
	payment.TransactionID = txnID
	if err := s.repo.Save(ctx, payment); err != nil {
		return nil, err
	}
	bus.Emit(ctx, s.events, "payment.processed", struct {
		ID            string  `json:"id"`
		OrderID       string  `json:"orderId"`
		Amount        float64 `json:"amount"`
		TransactionID string  `json:"transactionId"`
	}{payment.ID, payment.OrderID, payment.Amount, payment.TransactionID})

	slog.InfoContext(ctx, "payment captured",
		"payment_id", payment.ID, "order_id", payment.OrderID, "amount", payment.Amount)
	return payment, nil
}

// GetPayment returns one attempt.
func (s *Service) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPaymentsByOrder returns every attempt for one order, newest first.
func (s *Service) ListPaymentsByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// RefundPayment moves an attempt to REFUNDED and emits payment.refunded.
// Any prior status is accepted, so retried refund requests converge on
// the same state.
func (s *Service) RefundPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.TransactionID != "" {
		if err := s.charger.Refund(ctx, payment.TransactionID, payment.Amount); err != nil {
			return nil, err
		}
	}

	payment.Status = domain.StatusRefunded
	payment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, payment); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "payment.refunded", struct {
		ID      string  `json:"id"`
		OrderID string  `json:"orderId"`
		Amount  float64 `json:"amount"`
	}{payment.ID, payment.OrderID, payment.Amount})

	slog.InfoContext(ctx, "payment refunded", "payment_id", payment.ID, "order_id", payment.OrderID)
	return payment, nil
}
