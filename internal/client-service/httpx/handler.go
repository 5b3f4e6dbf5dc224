// Package httpx adapts the client directory to its REST surface.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ecommerce-platform/internal/client-service/app"
	"ecommerce-platform/internal/client-service/domain"
	pkghttpx "ecommerce-platform/internal/pkg/httpx"
)

type CreateClientRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Phone     string          `json:"phone"`
	Address   *domain.Address `json:"address"`
}

type UpdateClientRequest struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Phone     *string         `json:"phone"`
	Address   *domain.Address `json:"address"`
}

// ListResponse is the paginated envelope for client listings.
type ListResponse struct {
	Data   any `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Handler struct {
	clients *app.Service
}

func NewHandler(clients *app.Service) *Handler {
	return &Handler{clients: clients}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/clients", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/by-email/{email}", handler.GetByEmail)
		r.Get("/{id}", handler.GetByID)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	client, err := h.clients.CreateClient(r.Context(), app.CreateClientInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, client)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	clients, total, err := h.clients.ListClients(r.Context(), limit, offset)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, ListResponse{
		Data: clients, Total: total, Limit: limit, Offset: offset,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, client)
}

// GetByEmail returns the full record including the password hash. Only
// the gateway's login route calls it; the route is not exposed publicly.
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.GetClientByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	client, err := h.clients.UpdateClient(r.Context(), chi.URLParam(r, "id"), app.UpdateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clients.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "clients-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
