// Package httpx is the gateway's HTTP surface: the GraphQL endpoint, the
// REST auth routes, and health.
package httpx

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/graphql-go/graphql"

	"ecommerce-platform/internal/gateway/core/domain/entity"
	"ecommerce-platform/internal/gateway/core/ports"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/auth"
	pkghttpx "ecommerce-platform/internal/pkg/httpx"

	"ecommerce-platform/internal/gateway/infra/httpx/middlewares"
)

type Handler struct {
	schema   graphql.Schema
	verifier *auth.Verifier
	clients  ports.ClientsService
	// deps maps downstream service names to health probes.
	deps map[string]healthProbe
}

type healthProbe func(r *http.Request) error

func NewHandler(schema graphql.Schema, verifier *auth.Verifier, r Resolvers) *Handler {
	return &Handler{
		schema:   schema,
		verifier: verifier,
		clients:  r.Clients,
		deps: map[string]healthProbe{
			"clients-service":  func(req *http.Request) error { return r.Clients.Health(req.Context()) },
			"products-service": func(req *http.Request) error { return r.Products.Health(req.Context()) },
			"orders-service":   func(req *http.Request) error { return r.Orders.Health(req.Context()) },
			"payments-service": func(req *http.Request) error { return r.Payments.Health(req.Context()) },
			"invoices-service": func(req *http.Request) error { return r.Invoices.Health(req.Context()) },
		},
	}
}

// Resolvers groups the downstream ports the handler needs directly.
type Resolvers struct {
	Clients  ports.ClientsService
	Products ports.ProductsService
	Orders   ports.OrdersService
	Payments ports.PaymentsService
	Invoices ports.InvoicesService
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// GraphQL handles POST /graphql.
func (h *Handler) GraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})
	pkghttpx.WriteJSON(w, http.StatusOK, result)
}

type registerRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Phone     string          `json:"phone"`
	Address   *entity.Address `json:"address"`
}

func registerInput(req registerRequest, passwordHash string) entity.CreateClientInput {
	return entity.CreateClientInput{
		Email:     req.Email,
		Password:  passwordHash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string `json:"token"`
	Client any    `json:"client"`
}

// Register handles POST /auth/register: hash the password, create the
// profile, and return a fresh token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(req.Password) < 8 {
		pkghttpx.RespondError(w, r, apperr.Validation("password must be at least 8 characters", "password"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}

	client, err := h.clients.Create(r.Context(), registerInput(req, hash))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}

	token, err := h.verifier.Issue(client.ID, client.Email, client.Role)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, authResponse{Token: token, Client: client})
}

// Login handles POST /auth/login. A wrong password and an unknown email
// are indistinguishable to the caller.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	client, err := h.clients.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(client.Password, req.Password) {
		pkghttpx.RespondError(w, r, apperr.New(apperr.KindUnauthenticated, "invalid credentials"))
		return
	}

	token, err := h.verifier.Issue(client.ID, client.Email, client.Role)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	client.Password = ""
	pkghttpx.WriteJSON(w, http.StatusOK, authResponse{Token: token, Client: client})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.ClaimsFrom(r.Context())
	if claims == nil {
		pkghttpx.RespondError(w, r, apperr.New(apperr.KindUnauthenticated, "authentication required"))
		return
	}

	client, err := h.clients.Get(r.Context(), claims.UserID)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, client)
}

// Health handles GET /health: probes every downstream concurrently and
// reports degraded when any is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(h.deps))
	var wg sync.WaitGroup
	for name, probe := range h.deps {
		wg.Add(1)
		go func(name string, probe healthProbe) {
			defer wg.Done()
			results <- result{name: name, err: probe(r)}
		}(name, probe)
	}
	wg.Wait()
	close(results)

	services := make(map[string]string, len(h.deps))
	status := "healthy"
	code := http.StatusOK
	for res := range results {
		if res.err != nil {
			services[res.name] = "unreachable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			services[res.name] = "healthy"
		}
	}

	pkghttpx.WriteJSON(w, code, map[string]any{
		"status":    status,
		"service":   "api-gateway",
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Live handles GET /health/live: process liveness only.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready. The gateway keeps no local state, so
// readiness mirrors the downstream fanout.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}
