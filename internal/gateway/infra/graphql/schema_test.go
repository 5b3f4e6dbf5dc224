package graphql

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/infra/httpx/middlewares"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/auth"
)

// fakeBackends records every downstream call so tests can assert that
// rejected operations never reach a service.
type fakeBackends struct {
	calls []string

	clients  map[string]entity.Client
	products map[string]entity.Product
	orders   map[string]entity.Order
}

func newFakeBackends() *fakeBackends {
	return &fakeBackends{
		clients:  make(map[string]entity.Client),
		products: make(map[string]entity.Product),
		orders:   make(map[string]entity.Order),
	}
}

func (f *fakeBackends) record(op string) { f.calls = append(f.calls, op) }

func (f *fakeBackends) Create(ctx context.Context, in entity.CreateClientInput) (*entity.Client, error) {
	f.record("clients.create")
	c := entity.Client{ID: "client-new", Email: in.Email, Role: "client"}
	f.clients[c.ID] = c
	return &c, nil
}

func (f *fakeBackends) Get(ctx context.Context, id string) (*entity.Client, error) {
	f.record("clients.get")
	if c, ok := f.clients[id]; ok {
		return &c, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "client %s not found", id)
}

func (f *fakeBackends) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	f.record("clients.getByEmail")
	for _, c := range f.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "client not found")
}

func (f *fakeBackends) List(ctx context.Context, limit, offset int) ([]entity.Client, int, error) {
	f.record("clients.list")
	out := make([]entity.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeBackends) Update(ctx context.Context, id string, in entity.UpdateClientInput) (*entity.Client, error) {
	f.record("clients.update")
	c, ok := f.clients[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "client %s not found", id)
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	f.clients[id] = c
	return &c, nil
}

func (f *fakeBackends) Delete(ctx context.Context, id string) error {
	f.record("clients.delete")
	delete(f.clients, id)
	return nil
}

type fakeProducts struct{ b *fakeBackends }

func (f fakeProducts) Create(ctx context.Context, in entity.CreateProductInput) (*entity.Product, error) {
	f.b.record("products.create")
	p := entity.Product{ID: "product-new", Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category}
	f.b.products[p.ID] = p
	return &p, nil
}

func (f fakeProducts) Get(ctx context.Context, id string) (*entity.Product, error) {
	f.b.record("products.get")
	if p, ok := f.b.products[id]; ok {
		return &p, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
}

func (f fakeProducts) List(ctx context.Context, category string, limit, offset int) ([]entity.Product, int, error) {
	f.b.record("products.list")
	out := make([]entity.Product, 0, len(f.b.products))
	for _, p := range f.b.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f fakeProducts) Update(ctx context.Context, id string, in entity.UpdateProductInput) (*entity.Product, error) {
	f.b.record("products.update")
	p := f.b.products[id]
	return &p, nil
}

func (f fakeProducts) Delete(ctx context.Context, id string) error {
	f.b.record("products.delete")
	return nil
}

func (f fakeProducts) UpdateStock(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	f.b.record("products.updateStock")
	p := f.b.products[id]
	p.Stock = quantity
	return &p, nil
}

func (f fakeProducts) Health(ctx context.Context) error { return nil }

type fakeOrders struct{ b *fakeBackends }

func (f fakeOrders) Create(ctx context.Context, in entity.CreateOrderInput) (*entity.Order, error) {
	f.b.record("orders.create")
	o := entity.Order{ID: "order-new", ClientID: in.ClientID, Status: "PENDING"}
	f.b.orders[o.ID] = o
	return &o, nil
}

func (f fakeOrders) Get(ctx context.Context, id string) (*entity.Order, error) {
	f.b.record("orders.get")
	if o, ok := f.b.orders[id]; ok {
		return &o, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
}

func (f fakeOrders) List(ctx context.Context, clientID, status string) ([]entity.Order, error) {
	f.b.record("orders.list")
	out := make([]entity.Order, 0)
	for _, o := range f.b.orders {
		if clientID != "" && o.ClientID != clientID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f fakeOrders) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	f.b.record("orders.updateStatus")
	o := f.b.orders[id]
	o.Status = status
	f.b.orders[id] = o
	return &o, nil
}

func (f fakeOrders) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	f.b.record("orders.cancel")
	o := f.b.orders[id]
	o.Status = "CANCELLED"
	f.b.orders[id] = o
	return &o, nil
}

func (f fakeOrders) Health(ctx context.Context) error { return nil }

type fakePayments struct{ b *fakeBackends }

func (f fakePayments) Process(ctx context.Context, in entity.ProcessPaymentInput) (*entity.Payment, error) {
	f.b.record("payments.process")
	return &entity.Payment{ID: "payment-new", OrderID: in.OrderID, Status: "COMPLETED"}, nil
}

func (f fakePayments) Get(ctx context.Context, id string) (*entity.Payment, error) {
	f.b.record("payments.get")
	return &entity.Payment{ID: id}, nil
}

func (f fakePayments) ListByOrder(ctx context.Context, orderID string) ([]entity.Payment, error) {
	f.b.record("payments.listByOrder")
	return nil, nil
}

func (f fakePayments) Refund(ctx context.Context, id string) (*entity.Payment, error) {
	f.b.record("payments.refund")
	return &entity.Payment{ID: id, Status: "REFUNDED"}, nil
}

func (f fakePayments) Health(ctx context.Context) error { return nil }

type fakeInvoices struct{ b *fakeBackends }

func (f fakeInvoices) Generate(ctx context.Context, orderID string) (*entity.Invoice, error) {
	f.b.record("invoices.generate")
	return &entity.Invoice{ID: "invoice-new", OrderID: orderID, Status: "ISSUED"}, nil
}

func (f fakeInvoices) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	f.b.record("invoices.get")
	return &entity.Invoice{ID: id}, nil
}

func (f fakeInvoices) List(ctx context.Context, clientID, orderID string) ([]entity.Invoice, error) {
	f.b.record("invoices.list")
	return nil, nil
}

func (f fakeInvoices) Health(ctx context.Context) error { return nil }

func (f *fakeBackends) Health(ctx context.Context) error { return nil }

func newTestSchema(t *testing.T) (graphql.Schema, *fakeBackends) {
	t.Helper()
	b := newFakeBackends()
	schema, err := NewSchema(&Resolver{
		Clients:  b,
		Products: fakeProducts{b},
		Orders:   fakeOrders{b},
		Payments: fakePayments{b},
		Invoices: fakeInvoices{b},
	})
	require.NoError(t, err)
	return schema, b
}

func authedCtx(role, userID string) context.Context {
	return middlewares.WithClaims(context.Background(), &auth.Claims{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	})
}

func exec(schema graphql.Schema, ctx context.Context, query string) *graphql.Result {
	return graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: ctx})
}

func TestAnonymousMutationRejectedBeforeDownstream(t *testing.T) {
	schema, b := newTestSchema(t)

	result := exec(schema, context.Background(), `mutation {
		createOrder(items: [{productId: "p1", quantity: 1}],
			shippingAddress: {street: "1 Main St", city: "Leeds", postalCode: "LS1", country: "UK"}) { id }
	}`)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "authentication required")
	assert.Empty(t, b.calls, "the rejected mutation must not reach any service")
}

func TestProductQueriesArePublic(t *testing.T) {
	schema, b := newTestSchema(t)
	b.products["p1"] = entity.Product{ID: "p1", Name: "Keyboard", Price: 49.99}

	result := exec(schema, context.Background(), `{ product(id: "p1") { id name price } }`)
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]any)["product"].(map[string]any)
	assert.Equal(t, "Keyboard", data["name"])
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	schema, b := newTestSchema(t)

	query := `mutation { createProduct(name: "Keyboard", price: 49.99, stock: 5, category: "peripherals") { id } }`

	result := exec(schema, authedCtx("client", "client-1"), query)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "admin role required")
	assert.Empty(t, b.calls)

	result = exec(schema, authedCtx("admin", "admin-1"), query)
	require.Empty(t, result.Errors)
	assert.Equal(t, []string{"products.create"}, b.calls)
}

func TestCreateOrderForcesOwnClientID(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := exec(schema, authedCtx("client", "client-1"), `mutation {
		createOrder(clientId: "client-2", items: [{productId: "p1", quantity: 1}],
			shippingAddress: {street: "1 Main St", city: "Leeds", postalCode: "LS1", country: "UK"}) { id clientId }
	}`)
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]any)["createOrder"].(map[string]any)
	assert.Equal(t, "client-1", data["clientId"], "a client cannot order on behalf of another")
}

func TestOrderAccessLimitedToOwner(t *testing.T) {
	schema, b := newTestSchema(t)
	b.orders["order-1"] = entity.Order{ID: "order-1", ClientID: "client-1", Status: "PENDING"}

	result := exec(schema, authedCtx("client", "client-2"), `{ order(id: "order-1") { id } }`)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "not allowed")

	result = exec(schema, authedCtx("client", "client-1"), `{ order(id: "order-1") { id status } }`)
	require.Empty(t, result.Errors)

	result = exec(schema, authedCtx("admin", "admin-1"), `{ order(id: "order-1") { id } }`)
	require.Empty(t, result.Errors)
}

func TestMyOrdersUsesCallerIdentity(t *testing.T) {
	schema, b := newTestSchema(t)
	b.orders["order-1"] = entity.Order{ID: "order-1", ClientID: "client-1"}
	b.orders["order-2"] = entity.Order{ID: "order-2", ClientID: "client-2"}

	result := exec(schema, authedCtx("client", "client-1"), `{ myOrders { id clientId } }`)
	require.Empty(t, result.Errors)

	orders := result.Data.(map[string]any)["myOrders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].(map[string]any)["id"])
}

func TestRefundRequiresAdmin(t *testing.T) {
	schema, b := newTestSchema(t)

	result := exec(schema, authedCtx("client", "client-1"), `mutation { refundPayment(id: "pay-1") { id } }`)
	require.NotEmpty(t, result.Errors)
	assert.Empty(t, b.calls)

	result = exec(schema, authedCtx("admin", "admin-1"), `mutation { refundPayment(id: "pay-1") { id status } }`)
	require.Empty(t, result.Errors)
	assert.Equal(t, []string{"payments.refund"}, b.calls)
}

func TestMeResolvesCallerProfile(t *testing.T) {
	schema, b := newTestSchema(t)
	b.clients["client-1"] = entity.Client{ID: "client-1", Email: "ada@example.com"}

	result := exec(schema, authedCtx("client", "client-1"), `{ me { id email } }`)
	require.Empty(t, result.Errors)

	me := result.Data.(map[string]any)["me"].(map[string]any)
	assert.Equal(t, "ada@example.com", me["email"])

	result = exec(schema, context.Background(), `{ me { id } }`)
	require.NotEmpty(t, result.Errors)
}
