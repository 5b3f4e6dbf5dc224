// Package httpx adapts the payment ledger to its REST surface.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ecommerce-platform/internal/payment-service/app"
	pkghttpx "ecommerce-platform/internal/pkg/httpx"
)

type ProcessPaymentRequest struct {
	OrderID  string         `json:"orderId"`
	Amount   float64        `json:"amount"`
	Method   string         `json:"method"`
	Token    string         `json:"token"`
	Metadata map[string]any `json:"metadata"`
}

type Handler struct {
	payments *app.Service
}

func NewHandler(payments *app.Service) *Handler {
	return &Handler{payments: payments}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/", handler.Process)
		r.Get("/order/{orderId}", handler.ListByOrder)
		r.Get("/{id}", handler.GetByID)
		r.Post("/{id}/refund", handler.Refund)
	})
	return r
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	payment, err := h.payments.ProcessPayment(r.Context(), app.ProcessPaymentInput{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Method:   req.Method,
		Token:    req.Token,
		Metadata: req.Metadata,
	})
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, payment)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListPaymentsByOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, payments)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.RefundPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkghttpx.RespondError(w, r, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "payments-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
