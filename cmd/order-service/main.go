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

	"ecommerce-platform/internal/order-service/adapters/catalog"
	"ecommerce-platform/internal/order-service/app"
	"ecommerce-platform/internal/order-service/httpx"
	"ecommerce-platform/internal/order-service/sqlite"
	"ecommerce-platform/internal/pkg/bus"
	"ecommerce-platform/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("orders-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "orders-service"))
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

	repo, err := sqlite.Open(getEnv("DB_PATH", "data/orders.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	events := bus.NewRedisBus(getEnv("REDIS_ADDR", "localhost:6379"), "orders-service")
	defer events.Close()

	products := catalog.NewHTTPClient(getEnv("PRODUCTS_SERVICE_URL", "http://localhost:3002"))

	orders := app.NewService(repo, products, events)
	router := httpx.NewRouter(httpx.NewHandler(orders))

	addr := ":" + getEnv("PORT", "3003")
	srv := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "orders-service"),
	}

	go func() {
		slog.Info("orders service running", "addr", addr)
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
