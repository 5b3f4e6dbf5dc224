// Package service implements the gateway ports over the downstream REST
// APIs.
package service

import (
	"context"
	"fmt"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/httpx"
)

type clientsService struct {
	rest *httpx.Client
}

var _ ports.ClientsService = (*clientsService)(nil)

func NewClientsService(baseURL string) ports.ClientsService {
	return &clientsService{rest: httpx.NewClient(baseURL)}
}

func (s *clientsService) Create(ctx context.Context, in entity.CreateClientInput) (*entity.Client, error) {
	var client entity.Client
	if err := s.rest.Post(ctx, "/api/clients", in, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientsService) Get(ctx context.Context, id string) (*entity.Client, error) {
	var client entity.Client
	if err := s.rest.Get(ctx, "/api/clients/"+id, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// clientWithHash exists because entity.Client deliberately never
// serializes the password. The login lookup is the one place the hash
// crosses the wire.
type clientWithHash struct {
	entity.Client
	Password string `json:"password"`
}

func (s *clientsService) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	var wire clientWithHash
	if err := s.rest.Get(ctx, "/api/clients/by-email/"+email, &wire); err != nil {
		return nil, err
	}
	client := wire.Client
	client.Password = wire.Password
	return &client, nil
}

func (s *clientsService) List(ctx context.Context, limit, offset int) ([]entity.Client, int, error) {
	var page struct {
		Data  []entity.Client `json:"data"`
		Total int             `json:"total"`
	}
	path := fmt.Sprintf("/api/clients?limit=%d&offset=%d", limit, offset)
	if err := s.rest.Get(ctx, path, &page); err != nil {
		return nil, 0, err
	}
	return page.Data, page.Total, nil
}

func (s *clientsService) Update(ctx context.Context, id string, in entity.UpdateClientInput) (*entity.Client, error) {
	var client entity.Client
	if err := s.rest.Put(ctx, "/api/clients/"+id, in, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientsService) Delete(ctx context.Context, id string) error {
	return s.rest.Delete(ctx, "/api/clients/"+id, nil)
}

func (s *clientsService) Health(ctx context.Context) error {
	return s.rest.Get(ctx, "/health", nil)
}
