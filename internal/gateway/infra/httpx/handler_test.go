package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/infra/graphql"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/auth"
)

type stubClients struct {
	byEmail map[string]entity.Client
}

func (s *stubClients) Create(_ context.Context, in entity.CreateClientInput) (*entity.Client, error) {
	if _, ok := s.byEmail[in.Email]; ok {
		return nil, apperr.New(apperr.KindConflict, "email %s is already in use", in.Email)
	}
	c := entity.Client{ID: "client-1", Email: in.Email, Password: in.Password, Role: "client",
		FirstName: in.FirstName, LastName: in.LastName}
	s.byEmail[in.Email] = c
	return &c, nil
}

func (s *stubClients) Get(_ context.Context, id string) (*entity.Client, error) {
	for _, c := range s.byEmail {
		if c.ID == id {
			c.Password = ""
			return &c, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "client %s not found", id)
}

func (s *stubClients) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	if c, ok := s.byEmail[email]; ok {
		return &c, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "client not found")
}

func (s *stubClients) List(context.Context, int, int) ([]entity.Client, int, error) {
	return nil, 0, nil
}

func (s *stubClients) Update(_ context.Context, id string, _ entity.UpdateClientInput) (*entity.Client, error) {
	return nil, apperr.New(apperr.KindNotFound, "client %s not found", id)
}

func (s *stubClients) Delete(context.Context, string) error { return nil }
func (s *stubClients) Health(context.Context) error         { return nil }

type stubProducts struct{}

func (stubProducts) Create(context.Context, entity.CreateProductInput) (*entity.Product, error) {
	return nil, nil
}
func (stubProducts) Get(context.Context, string) (*entity.Product, error) { return nil, nil }
func (stubProducts) List(context.Context, string, int, int) ([]entity.Product, int, error) {
	return nil, 0, nil
}
func (stubProducts) Update(context.Context, string, entity.UpdateProductInput) (*entity.Product, error) {
	return nil, nil
}
func (stubProducts) Delete(context.Context, string) error { return nil }
func (stubProducts) UpdateStock(context.Context, string, int) (*entity.Product, error) {
	return nil, nil
}
func (stubProducts) Health(context.Context) error { return nil }

type stubOrders struct{}

func (stubOrders) Create(context.Context, entity.CreateOrderInput) (*entity.Order, error) {
	return nil, nil
}
func (stubOrders) Get(context.Context, string) (*entity.Order, error)          { return nil, nil }
func (stubOrders) List(context.Context, string, string) ([]entity.Order, error) { return nil, nil }
func (stubOrders) UpdateStatus(context.Context, string, string) (*entity.Order, error) {
	return nil, nil
}
func (stubOrders) Cancel(context.Context, string) (*entity.Order, error) { return nil, nil }
func (stubOrders) Health(context.Context) error                          { return nil }

type stubPayments struct{}

func (stubPayments) Process(context.Context, entity.ProcessPaymentInput) (*entity.Payment, error) {
	return nil, nil
}
func (stubPayments) Get(context.Context, string) (*entity.Payment, error)           { return nil, nil }
func (stubPayments) ListByOrder(context.Context, string) ([]entity.Payment, error)  { return nil, nil }
func (stubPayments) Refund(context.Context, string) (*entity.Payment, error)        { return nil, nil }
func (stubPayments) Health(context.Context) error                                   { return nil }

type stubInvoices struct{}

func (stubInvoices) Generate(context.Context, string) (*entity.Invoice, error) { return nil, nil }
func (stubInvoices) Get(context.Context, string) (*entity.Invoice, error)      { return nil, nil }
func (stubInvoices) List(context.Context, string, string) ([]entity.Invoice, error) {
	return nil, nil
}
func (stubInvoices) Health(context.Context) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *stubClients, *auth.Verifier) {
	t.Helper()
	clients := &stubClients{byEmail: make(map[string]entity.Client)}
	resolvers := Resolvers{
		Clients:  clients,
		Products: stubProducts{},
		Orders:   stubOrders{},
		Payments: stubPayments{},
		Invoices: stubInvoices{},
	}

	schema, err := graphql.NewSchema(&graphql.Resolver{
		Clients:  resolvers.Clients,
		Products: resolvers.Products,
		Orders:   resolvers.Orders,
		Payments: resolvers.Payments,
		Invoices: resolvers.Invoices,
	})
	require.NoError(t, err)

	verifier := auth.NewVerifier("test-secret", time.Hour)
	handler := NewHandler(schema, verifier, resolvers)
	server := httptest.NewServer(NewRouter(handler, verifier))
	t.Cleanup(server.Close)
	return server, clients, verifier
}

func postJSON(t *testing.T, url string, body any, token string) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func TestRegisterIssuesTokenAndHashesPassword(t *testing.T) {
	server, clients, _ := newTestServer(t)

	res := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email": "ada@example.com", "password": "correct-horse", "firstName": "Ada", "lastName": "Lovelace",
	}, "")
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var payload struct {
		Token  string `json:"token"`
		Client struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"client"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.NotEmpty(t, payload.Token)
	assert.Empty(t, payload.Client.Password, "the response must never carry a hash")

	stored := clients.byEmail["ada@example.com"]
	assert.NotEqual(t, "correct-horse", stored.Password, "the plaintext must never be forwarded")
	assert.True(t, auth.CheckPassword(stored.Password, "correct-horse"))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	server, clients, _ := newTestServer(t)

	res := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email": "ada@example.com", "password": "short", "firstName": "Ada", "lastName": "Lovelace",
	}, "")
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Empty(t, clients.byEmail)
}

func TestLoginDistinguishesNothing(t *testing.T) {
	server, _, _ := newTestServer(t)

	res := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email": "ada@example.com", "password": "correct-horse", "firstName": "Ada", "lastName": "Lovelace",
	}, "")
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Wrong password and unknown email read identically.
	for _, body := range []map[string]any{
		{"email": "ada@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "correct-horse"},
	} {
		res := postJSON(t, server.URL+"/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		res.Body.Close()
	}

	res = postJSON(t, server.URL+"/auth/login", map[string]any{
		"email": "ada@example.com", "password": "correct-horse",
	}, "")
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/auth/me", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Register, then call me with the issued token.
	regRes := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email": "ada@example.com", "password": "correct-horse", "firstName": "Ada", "lastName": "Lovelace",
	}, "")
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(regRes.Body).Decode(&payload))
	regRes.Body.Close()

	req.Header.Set("Authorization", "Bearer "+payload.Token)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGraphQLEndpointCarriesIdentity(t *testing.T) {
	server, clients, verifier := newTestServer(t)
	clients.byEmail["ada@example.com"] = entity.Client{ID: "client-1", Email: "ada@example.com"}

	token, err := verifier.Issue("client-1", "ada@example.com", "client")
	require.NoError(t, err)

	res := postJSON(t, server.URL+"/graphql", map[string]any{
		"query": `{ me { id email } }`,
	}, token)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var result gql.Result
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	require.Empty(t, result.Errors)

	me := result.Data.(map[string]any)["me"].(map[string]any)
	assert.Equal(t, "ada@example.com", me["email"])
}
