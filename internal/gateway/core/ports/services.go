// Package ports declares the downstream service contracts the gateway
// composes over.
package ports

import (
	"context"

	"ecommerce-platform/internal/gateway/core/domain/entity"
)

type ClientsService interface {
	Create(ctx context.Context, in entity.CreateClientInput) (*entity.Client, error)
	Get(ctx context.Context, id string) (*entity.Client, error)
	// GetByEmail returns the full record including the password hash.
	// Only the login flow may call it.
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]entity.Client, int, error)
	Update(ctx context.Context, id string, in entity.UpdateClientInput) (*entity.Client, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) error
}

type ProductsService interface {
	Create(ctx context.Context, in entity.CreateProductInput) (*entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int, error)
	Update(ctx context.Context, id string, in entity.UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, quantity int) (*entity.Product, error)
	Health(ctx context.Context) error
}

type OrdersService interface {
	Create(ctx context.Context, in entity.CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, clientID, status string) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error)
	Cancel(ctx context.Context, id string) (*entity.Order, error)
	Health(ctx context.Context) error
}

type PaymentsService interface {
	Process(ctx context.Context, in entity.ProcessPaymentInput) (*entity.Payment, error)
	Get(ctx context.Context, id string) (*entity.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]entity.Payment, error)
	Refund(ctx context.Context, id string) (*entity.Payment, error)
	Health(ctx context.Context) error
}

type InvoicesService interface {
	Generate(ctx context.Context, orderID string) (*entity.Invoice, error)
	Get(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, clientID, orderID string) ([]entity.Invoice, error)
	Health(ctx context.Context) error
}
