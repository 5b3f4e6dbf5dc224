package service

import (
	"context"
	"net/url"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/httpx"
)

type ordersService struct {
	rest *httpx.Client
}

var _ ports.OrdersService = (*ordersService)(nil)

func NewOrdersService(baseURL string) ports.OrdersService {
	return &ordersService{rest: httpx.NewClient(baseURL)}
}

func (s *ordersService) Create(ctx context.Context, in entity.CreateOrderInput) (*entity.Order, error) {
	var order entity.Order
	if err := s.rest.Post(ctx, "/api/orders", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *ordersService) Get(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	if err := s.rest.Get(ctx, "/api/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *ordersService) List(ctx context.Context, clientID, status string) ([]entity.Order, error) {
	q := url.Values{}
	if clientID != "" {
		q.Set("clientId", clientID)
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/api/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var orders []entity.Order
	if err := s.rest.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *ordersService) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	var order entity.Order
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	if err := s.rest.Patch(ctx, "/api/orders/"+id+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *ordersService) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	if err := s.rest.Post(ctx, "/api/orders/"+id+"/cancel", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *ordersService) Health(ctx context.Context) error {
	return s.rest.Get(ctx, "/health", nil)
}
