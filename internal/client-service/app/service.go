// Package app implements the client directory operations.
package app

import (
	"context"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"ecommerce-platform/internal/client-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
)

// Repository persists clients. Create must fail with Conflict when the
// email is already taken.
type Repository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	Find(ctx context.Context, limit, offset int) ([]domain.Client, int, error)
	Save(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// Service implements the client directory.
type Service struct {
	repo   Repository
	events bus.Publisher
}

func NewService(repo Repository, events bus.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

// CreateClientInput carries a new profile. Password must already be
// hashed by the caller (the gateway's register route does the hashing).
type CreateClientInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   *domain.Address
}

// UpdateClientInput is a partial profile update. Email and password are
// deliberately not updatable through this operation.
type UpdateClientInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *domain.Address
}

// CreateClient validates, rejects duplicate emails with Conflict, persists
// and emits client.created. The returned client never carries the
// password hash.
func (s *Service) CreateClient(ctx context.Context, in CreateClientInput) (*domain.Client, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperr.New(apperr.KindConflict, "email %s is already in use", in.Email)
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      domain.DefaultRole,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "client.created", struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		CreatedAt time.Time `json:"createdAt"`
	}{client.ID, client.Email, client.FirstName, client.LastName, client.CreatedAt})

	slog.InfoContext(ctx, "client created", "client_id", client.ID)
	public := client.Public()
	return &public, nil
}

// GetClient returns one public profile.
func (s *Service) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := client.Public()
	return &public, nil
}

// GetClientByEmail returns the full record including the password hash.
// Reserved for the gateway's login flow; never exposed through GraphQL.
func (s *Service) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.repo.FindByEmail(ctx, email)
}

// ListClients returns a page of public profiles plus the total count.
func (s *Service) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	clients, total, err := s.repo.Find(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range clients {
		clients[i] = clients[i].Public()
	}
	return clients, total, nil
}

// UpdateClient applies a partial update and emits client.updated.
func (s *Service) UpdateClient(ctx context.Context, id string, in UpdateClientInput) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		client.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		client.LastName = *in.LastName
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = in.Address
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, client); err != nil {
		return nil, err
	}

	bus.Emit(ctx, s.events, "client.updated", struct {
		ID        string    `json:"id"`
		UpdatedAt time.Time `json:"updatedAt"`
	}{ID: id, UpdatedAt: client.UpdatedAt})

	public := client.Public()
	return &public, nil
}

// DeleteClient removes a profile and emits client.deleted.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	bus.Emit(ctx, s.events, "client.deleted", struct {
		ID        string    `json:"id"`
		DeletedAt time.Time `json:"deletedAt"`
	}{ID: id, DeletedAt: time.Now().UTC()})
	return nil
}

func validateCreate(in CreateClientInput) error {
	var fields []string
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields = append(fields, "email")
	}
	if len(in.Password) < 8 {
		fields = append(fields, "password")
	}
	if in.FirstName == "" {
		fields = append(fields, "firstName")
	}
	if in.LastName == "" {
		fields = append(fields, "lastName")
	}
	if in.Address != nil {
		if in.Address.Street == "" || in.Address.City == "" || in.Address.PostalCode == "" || in.Address.Country == "" {
			fields = append(fields, "address")
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid client", fields...)
	}
	return nil
}
