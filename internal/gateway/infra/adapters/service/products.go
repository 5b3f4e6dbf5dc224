package service

import (
	"context"
	"fmt"
	"net/url"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/httpx"
)

type productsService struct {
	rest *httpx.Client
}

var _ ports.ProductsService = (*productsService)(nil)

func NewProductsService(baseURL string) ports.ProductsService {
	return &productsService{rest: httpx.NewClient(baseURL)}
}

func (s *productsService) Create(ctx context.Context, in entity.CreateProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := s.rest.Post(ctx, "/api/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productsService) Get(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	if err := s.rest.Get(ctx, "/api/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productsService) List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int, error) {
	var page struct {
		Data  []entity.Product `json:"data"`
		Total int              `json:"total"`
	}
	path := fmt.Sprintf("/api/products?limit=%d&offset=%d", limit, offset)
	if category != "" {
		path += "&category=" + url.QueryEscape(category)
	}
	if err := s.rest.Get(ctx, path, &page); err != nil {
		return nil, 0, err
	}
	return page.Data, page.Total, nil
}

func (s *productsService) Update(ctx context.Context, id string, in entity.UpdateProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := s.rest.Put(ctx, "/api/products/"+id, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productsService) Delete(ctx context.Context, id string) error {
	return s.rest.Delete(ctx, "/api/products/"+id, nil)
}

func (s *productsService) UpdateStock(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	var product entity.Product
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	if err := s.rest.Patch(ctx, "/api/products/"+id+"/stock", body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productsService) Health(ctx context.Context) error {
	return s.rest.Get(ctx, "/health", nil)
}
