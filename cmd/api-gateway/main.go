package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ecommerce-platform/internal/gateway/infra/adapters/service"
	"ecommerce-platform/internal/gateway/infra/graphql"
	"ecommerce-platform/internal/gateway/infra/httpx"
	"ecommerce-platform/internal/pkg/auth"
	"ecommerce-platform/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "api-gateway"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	resolvers := httpx.Resolvers{
		Clients:  service.NewClientsService(getEnv("CLIENTS_SERVICE_URL", "http://localhost:3001")),
		Products: service.NewProductsService(getEnv("PRODUCTS_SERVICE_URL", "http://localhost:3002")),
		Orders:   service.NewOrdersService(getEnv("ORDERS_SERVICE_URL", "http://localhost:3003")),
		Payments: service.NewPaymentsService(getEnv("PAYMENTS_SERVICE_URL", "http://localhost:3004")),
		Invoices: service.NewInvoicesService(getEnv("INVOICES_SERVICE_URL", "http://localhost:3005")),
	}

	schema, err := graphql.NewSchema(&graphql.Resolver{
		Clients:  resolvers.Clients,
		Products: resolvers.Products,
		Orders:   resolvers.Orders,
		Payments: resolvers.Payments,
		Invoices: resolvers.Invoices,
	})
	if err != nil {
		slog.Error("failed to build schema", "error", err)
		os.Exit(1)
	}

	verifier := auth.NewVerifier(getEnv("JWT_SECRET", "dev-secret-change-me"), 24*time.Hour)
	handler := httpx.NewHandler(schema, verifier, resolvers)
	router := httpx.NewRouter(handler, verifier)

	addr := ":" + getEnv("PORT", "3000")
	srv := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "api-gateway"),
	}

	go func() {
		slog.Info("api gateway running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
