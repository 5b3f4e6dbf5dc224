// Package httpx adapts the catalog store to its REST surface.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	pkghttpx "ecommerce-platform/internal/pkg/httpx"
	"ecommerce-platform/internal/product-service/app"
)

type CreateProductRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	Category    string         `json:"category"`
	Images      []string       `json:"images"`
	Attributes  map[string]any `json:"attributes"`
}

type UpdateProductRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Stock       *int           `json:"stock"`
	Category    *string        `json:"category"`
	Images      []string       `json:"images"`
	Attributes  map[string]any `json:"attributes"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}

// ListResponse is the paginated envelope for catalog listings.
type ListResponse struct {
	Data   any `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Handler struct {
	products *app.Service
}

func NewHandler(products *app.Service) *Handler {
	return &Handler{products: products}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.GetByID)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Patch("/{id}/stock", handler.UpdateStock)
	})
	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.CreateProduct(r.Context(), app.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Images:      req.Images,
		Attributes:  req.Attributes,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := app.Filter{
		Category: r.URL.Query().Get("category"),
		Limit:    queryInt(r, "limit", 10),
		Offset:   queryInt(r, "offset", 0),
	}

	products, total, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, ListResponse{
		Data: products, Total: total, Limit: filter.Limit, Offset: filter.Offset,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), app.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Images:      req.Images,
		Attributes:  req.Attributes,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.UpdateStock(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "products-service",
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
