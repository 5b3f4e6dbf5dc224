// Package httpx adapts the order ledger to its REST surface.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ecommerce-platform/internal/order-service/app"
	"ecommerce-platform/internal/order-service/domain"
	pkghttpx "ecommerce-platform/internal/pkg/httpx"
)

// Handler exposes the order ledger operations over HTTP.
type Handler struct {
	orders *app.Service
}

func NewHandler(orders *app.Service) *Handler {
	return &Handler{orders: orders}
}

// Create handles POST /api/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	items := make([]app.CreateOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, app.CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orders.CreateOrder(r.Context(), app.CreateOrderInput{
		ClientID:        req.ClientID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders with optional clientId and status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := app.Filter{
		ClientID: r.URL.Query().Get("clientId"),
		Status:   domain.Status(r.URL.Query().Get("status")),
	}

	orders, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, order)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "orders-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
