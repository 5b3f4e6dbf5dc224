package app

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
	"ecommerce-platform/internal/product-service/domain"
)

type fakeRepo struct {
	products map[string]*domain.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*domain.Product)}
}

var _ Repository = (*fakeRepo)(nil)

func (f *fakeRepo) Create(_ context.Context, p *domain.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
}

func (f *fakeRepo) Find(_ context.Context, filter Filter) ([]domain.Product, int, error) {
	matched := make([]domain.Product, 0)
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	if filter.Offset > len(matched) {
		filter.Offset = len(matched)
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeRepo) Save(_ context.Context, p *domain.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "product %s not found", p.ID)
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return apperr.New(apperr.KindNotFound, "product %s not found", id)
	}
	delete(f.products, id)
	return nil
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:     "Mechanical Keyboard",
		Price:    89.99,
		Stock:    12,
		Category: "peripherals",
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := NewService(repo, events)

	product, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, []string{"product.created"}, events.Topics())
}

func TestCreateProductValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
		field  string
	}{
		{"missing name", func(in *CreateProductInput) { in.Name = "" }, "name"},
		{"missing category", func(in *CreateProductInput) { in.Category = "" }, "category"},
		{"negative price", func(in *CreateProductInput) { in.Price = -1 }, "price"},
		{"negative stock", func(in *CreateProductInput) { in.Stock = -1 }, "stock"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo, &bus.Recorder{})

			in := validInput()
			tc.mutate(&in)

			_, err := svc.CreateProduct(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, ae.Fields, tc.field)
			assert.Empty(t, repo.products)
		})
	}
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := NewService(repo, events)

	created, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	price := 79.99
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 79.99, updated.Price)
	assert.Equal(t, "Mechanical Keyboard", updated.Name, "untouched fields keep their values")
	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, []string{"product.created", "product.updated"}, events.Topics())
}

func TestUpdateStockIsAbsolute(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := NewService(repo, events)

	created, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStock(context.Background(), created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	_, err = svc.UpdateStock(context.Background(), created.ID, -1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Equal(t, []string{"product.created", "product.stock.updated"}, events.Topics())
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &bus.Recorder{})

	for _, p := range []CreateProductInput{
		{Name: "Keyboard", Price: 89.99, Stock: 5, Category: "peripherals"},
		{Name: "Mouse", Price: 39.99, Stock: 9, Category: "peripherals"},
		{Name: "Monitor", Price: 249.99, Stock: 2, Category: "displays"},
	} {
		_, err := svc.CreateProduct(context.Background(), p)
		require.NoError(t, err)
	}

	peripherals, total, err := svc.ListProducts(context.Background(), Filter{Category: "peripherals"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, peripherals, 2)

	page, total, err := svc.ListProducts(context.Background(), Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)
}

func TestDeleteProduct(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := NewService(repo, events)

	created, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))
	assert.Equal(t, []string{"product.created", "product.deleted"}, events.Topics())

	err = svc.DeleteProduct(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
