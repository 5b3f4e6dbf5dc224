// Package httpx adapts invoicing to its REST surface.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ecommerce-platform/internal/invoice-service/app"
	pkghttpx "ecommerce-platform/internal/pkg/httpx"
)

type GenerateInvoiceRequest struct {
	OrderID string `json:"orderId"`
}

type Handler struct {
	invoices *app.Service
}

func NewHandler(invoices *app.Service) *Handler {
	return &Handler{invoices: invoices}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/invoices", func(r chi.Router) {
		r.Post("/", handler.Generate)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.GetByID)
		r.Post("/{id}/pay", handler.MarkPaid)
		r.Post("/{id}/cancel", handler.Cancel)
	})
	return r
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	invoice, err := h.invoices.GenerateInvoice(r.Context(), req.OrderID)
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, invoice)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.ListInvoices(r.Context(), app.Filter{
		ClientID: r.URL.Query().Get("clientId"),
		OrderID:  r.URL.Query().Get("orderId"),
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, invoices)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, invoice)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, invoice)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.CancelInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, invoice)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "invoices-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
