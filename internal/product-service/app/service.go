// Package app implements the catalog operations.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
	"ecommerce-platform/internal/product-service/domain"
)

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Find(ctx context.Context, filter Filter) ([]domain.Product, int, error)
	Save(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows catalog listings. Limit/Offset paginate; Category is an
// exact match when set.
type Filter struct {
	Category string
	Limit    int
	Offset   int
}

// Service implements the catalog store.
type Service struct {
	repo   Repository
	events bus.Publisher
}

func NewService(repo Repository, events bus.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

// CreateProductInput carries a new catalog record.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Images      []string
	Attributes  map[string]any
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	Images      []string
	Attributes  map[string]any
}

// CreateProduct validates and persists a product, then emits
// product.created.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	var fields []string
	if in.Name == "" {
		fields = append(fields, "name")
	}
	if in.Category == "" {
		fields = append(fields, "category")
	}
	if in.Price < 0 {
		fields = append(fields, "price")
	}
	if in.Stock < 0 {
		fields = append(fields, "stock")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid product", fields...)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Images:      in.Images,
		Attributes:  in.Attributes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "product.created", struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{ID: product.ID, Name: product.Name})

	slog.InfoContext(ctx, "product created", "product_id", product.ID)
	return product, nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ListProducts returns a page of products plus the unpaginated total.
func (s *Service) ListProducts(ctx context.Context, filter Filter) ([]domain.Product, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.Find(ctx, filter)
}

// UpdateProduct applies a partial update and emits product.updated.
func (s *Service) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Images != nil {
		product.Images = in.Images
	}
	if in.Attributes != nil {
		product.Attributes = in.Attributes
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "product.updated", struct {
		ID string `json:"id"`
	}{ID: id})
	return product, nil
}

// DeleteProduct removes a product and emits product.deleted.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	bus.Emit(ctx, s.events, "product.deleted", struct {
		ID string `json:"id"`
	}{ID: id})
	return nil
}

// UpdateStock sets the absolute stock level. Deliberately decoupled from
// order creation: the ledger never calls this.
func (s *Service) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, apperr.Validation("stock cannot be negative", "quantity")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Stock = quantity
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "product.stock.updated", struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}{ID: id, Stock: quantity})
	return product, nil
}
