package service

import (
	"context"
	"net/url"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/httpx"
)

type invoicesService struct {
	rest *httpx.Client
}

var _ ports.InvoicesService = (*invoicesService)(nil)

func NewInvoicesService(baseURL string) ports.InvoicesService {
	return &invoicesService{rest: httpx.NewClient(baseURL)}
}

func (s *invoicesService) Generate(ctx context.Context, orderID string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	body := struct {
		OrderID string `json:"orderId"`
	}{OrderID: orderID}
	if err := s.rest.Post(ctx, "/api/invoices", body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *invoicesService) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	if err := s.rest.Get(ctx, "/api/invoices/"+id, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *invoicesService) List(ctx context.Context, clientID, orderID string) ([]entity.Invoice, error) {
	q := url.Values{}
	if clientID != "" {
		q.Set("clientId", clientID)
	}
	if orderID != "" {
		q.Set("orderId", orderID)
	}
	path := "/api/invoices"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var invoices []entity.Invoice
	if err := s.rest.Get(ctx, path, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *invoicesService) Health(ctx context.Context) error {
	return s.rest.Get(ctx, "/health", nil)
}
