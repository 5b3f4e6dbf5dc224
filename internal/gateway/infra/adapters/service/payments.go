package service

import (
	"context"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/httpx"
)

type paymentsService struct {
	rest *httpx.Client
}

var _ ports.PaymentsService = (*paymentsService)(nil)

func NewPaymentsService(baseURL string) ports.PaymentsService {
	return &paymentsService{rest: httpx.NewClient(baseURL)}
}

func (s *paymentsService) Process(ctx context.Context, in entity.ProcessPaymentInput) (*entity.Payment, error) {
	var payment entity.Payment
	if err := s.rest.Post(ctx, "/api/payments", in, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentsService) Get(ctx context.Context, id string) (*entity.Payment, error) {
	var payment entity.Payment
	if err := s.rest.Get(ctx, "/api/payments/"+id, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentsService) ListByOrder(ctx context.Context, orderID string) ([]entity.Payment, error) {
	var payments []entity.Payment
	if err := s.rest.Get(ctx, "/api/payments/order/"+orderID, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *paymentsService) Refund(ctx context.Context, id string) (*entity.Payment, error) {
	var payment entity.Payment
	if err := s.rest.Post(ctx, "/api/payments/"+id+"/refund", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentsService) Health(ctx context.Context) error {
	return s.rest.Get(ctx, "/health", nil)
}
