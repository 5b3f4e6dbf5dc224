package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/order-service/app"
	"ecommerce-platform/internal/order-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleOrder(clientID string) *domain.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Order{
		ID:          uuid.NewString(),
		OrderNumber: app.NewOrderNumber(),
		ClientID:    clientID,
		Status:      domain.StatusPending,
		Total:       25.50,
		ShippingAddress: domain.Address{
			Street: "12 Quai des Belges", City: "Marseille", PostalCode: "13001", Country: "FR",
		},
		Items: []domain.OrderItem{
			{ID: uuid.NewString(), ProductID: "p1", Quantity: 2, Price: 10.00, Total: 20.00},
			{ID: uuid.NewString(), ProductID: "p2", Quantity: 1, Price: 5.50, Total: 5.50},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	order := sampleOrder("client-1")

	require.NoError(t, repo.Create(context.Background(), order))

	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
	assert.Equal(t, order.ClientID, got.ClientID)
	assert.InDelta(t, order.Total, got.Total, 1e-9)
	assert.Equal(t, order.ShippingAddress, got.ShippingAddress)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.InDelta(t, 20.00, got.Items[0].Total, 1e-9)
	assert.True(t, got.CreatedAt.Equal(order.CreatedAt))
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDuplicateOrderNumberRejected(t *testing.T) {
	repo := newTestRepo(t)
	first := sampleOrder("client-1")
	require.NoError(t, repo.Create(context.Background(), first))

	dup := sampleOrder("client-2")
	dup.OrderNumber = first.OrderNumber
	err := repo.Create(context.Background(), dup)
	require.Error(t, err, "order number is globally unique")

	// The failed transaction must leave no item rows behind.
	orders, listErr := repo.Find(context.Background(), app.Filter{ClientID: "client-2"})
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestFindFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a1 := sampleOrder("a")
	a2 := sampleOrder("a")
	b1 := sampleOrder("b")
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))
	require.NoError(t, repo.Create(ctx, b1))
	require.NoError(t, repo.UpdateStatus(ctx, a2.ID, domain.StatusShipped, time.Now().UTC()))

	all, err := repo.Find(ctx, app.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := repo.Find(ctx, app.Filter{ClientID: "a"})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	shippedA, err := repo.Find(ctx, app.Filter{ClientID: "a", Status: domain.StatusShipped})
	require.NoError(t, err)
	require.Len(t, shippedA, 1)
	assert.Equal(t, a2.ID, shippedA[0].ID)

	none, err := repo.Find(ctx, app.Filter{ClientID: "b", Status: domain.StatusShipped})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusCancelled, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
