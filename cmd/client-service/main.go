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

	"ecommerce-platform/internal/client-service/app"
	"ecommerce-platform/internal/client-service/httpx"
	"ecommerce-platform/internal/client-service/sqlite"
	"ecommerce-platform/internal/pkg/bus"
	"ecommerce-platform/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("clients-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "clients-service"))
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

	repo, err := sqlite.Open(getEnv("DB_PATH", "data/clients.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	events := bus.NewRedisBus(getEnv("REDIS_ADDR", "localhost:6379"), "clients-service")
	defer events.Close()

	clients := app.NewService(repo, events)
	router := httpx.NewRouter(httpx.NewHandler(clients))

	addr := ":" + getEnv("PORT", "3001")
	srv := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "clients-service"),
	}

	go func() {
		slog.Info("clients service running", "addr", addr)
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
