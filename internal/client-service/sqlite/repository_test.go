package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/client-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "clients.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleClient(email string) *domain.Client {
	now := time.Now().UTC()
	return &domain.Client{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  "$2a$10$fakedhashvalue",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+44 20 7946 0000",
		Role:      domain.DefaultRole,
		Address: &domain.Address{
			Street: "1 Main St", City: "Leeds", PostalCode: "LS1 1AA", Country: "UK",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	client := sampleClient("ada@example.com")
	require.NoError(t, repo.Create(context.Background(), client))

	byID, err := repo.FindByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.Email, byID.Email)
	require.NotNil(t, byID.Address)
	assert.Equal(t, "Leeds", byID.Address.City)

	byEmail, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, client.ID, byEmail.ID)
	assert.Equal(t, client.Password, byEmail.Password)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Create(context.Background(), sampleClient("ada@example.com")))

	err := repo.Create(context.Background(), sampleClient("ada@example.com"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestFindMissingClient(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSaveAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	client := sampleClient("ada@example.com")
	require.NoError(t, repo.Create(context.Background(), client))

	client.Phone = "+44 161 496 0000"
	client.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Save(context.Background(), client))

	got, err := repo.FindByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "+44 161 496 0000", got.Phone)

	require.NoError(t, repo.Delete(context.Background(), client.ID))
	err = repo.Delete(context.Background(), client.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestFindPaginates(t *testing.T) {
	repo := newTestRepo(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Create(context.Background(), sampleClient(email)))
	}

	page, total, err := repo.Find(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	rest, _, err := repo.Find(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
