// Package app holds the order ledger's core operations: creation with
// point-in-time pricing, status transitions and cancellation.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ecommerce-platform/internal/order-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
)

// Repository persists orders. Create must write the order and its items in
// a single transaction so the aggregate either fully exists or not at all.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Find(ctx context.Context, filter Filter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
}

// Filter narrows list queries. Empty fields are unconstrained; set fields
// combine conjunctively.
type Filter struct {
	ClientID string
	Status   domain.Status
}

// Product is the read-only catalog projection the ledger prices against.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Catalog looks up current product records. The ledger only ever reads; it
// performs no reservation or stock decrement.
type Catalog interface {
	Product(ctx context.Context, id string) (*Product, error)
}

// Service implements the order ledger.
type Service struct {
	repo    Repository
	catalog Catalog
	events  bus.Publisher
}

func NewService(repo Repository, catalog Catalog, events bus.Publisher) *Service {
	return &Service{repo: repo, catalog: catalog, events: events}
}

// CreateOrderInput is the creation request after transport decoding.
type CreateOrderInput struct {
	ClientID        string
	Items           []CreateOrderItem
	ShippingAddress domain.Address
}

// CreateOrderItem names a product and how many of it to order.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
}

type orderCreatedEvent struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	ClientID    string  `json:"clientId"`
	Total       float64 `json:"total"`
}

type statusUpdatedEvent struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
}

// CreateOrder prices every item against the current catalog, in input
// order, then persists the order and its items as one transaction. Prices
// are frozen copies: later catalog changes never affect the stored total.
// Any pricing failure aborts the whole operation before anything is
// persisted. The order.created event is emitted best-effort after commit.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		product, err := s.catalog.Product(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		lineTotal := domain.Round2(product.Price * float64(it.Quantity))
		total = domain.Round2(total + lineTotal)
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     product.Price,
			Total:     lineTotal,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     NewOrderNumber(),
		ClientID:        in.ClientID,
		Items:           items,
		Status:          domain.StatusPending,
		Total:           total,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "order.created", orderCreatedEvent{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		ClientID:    order.ClientID,
		Total:       order.Total,
	})

	slog.InfoContext(ctx, "order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total)
	return order, nil
}

// GetOrder returns one order with its items.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOrders returns orders matching the filter.
func (s *Service) ListOrders(ctx context.Context, filter Filter) ([]domain.Order, error) {
	return s.repo.Find(ctx, filter)
}

// UpdateStatus overwrites the order status. No transition table is
// enforced; the only check is that the value names a known status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return nil, apperr.Validation("unknown order status "+status, "status")
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed, time.Now().UTC()); err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "order.status.updated", statusUpdatedEvent{ID: id, Status: parsed})
	return order, nil
}

// CancelOrder overwrites the status to CANCELLED regardless of the current
// status. It triggers no compensation against payments or stock, and each
// call emits a fresh order.cancelled event.
func (s *Service) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.repo.UpdateStatus(ctx, id, domain.StatusCancelled, time.Now().UTC()); err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "order.cancelled", struct {
		ID string `json:"id"`
	}{ID: id})

	slog.InfoContext(ctx, "order cancelled", "order_id", id)
	return order, nil
}

func validateCreate(in CreateOrderInput) error {
	var fields []string
	if in.ClientID == "" {
		fields = append(fields, "clientId")
	}
	if len(in.Items) == 0 {
		fields = append(fields, "items")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			fields = append(fields, "items.productId")
		}
		if it.Quantity <= 0 {
			fields = append(fields, "items.quantity")
		}
	}
	fields = append(fields, in.ShippingAddress.MissingFields()...)
	if len(fields) > 0 {
		return apperr.Validation("invalid order request", fields...)
	}
	return nil
}
