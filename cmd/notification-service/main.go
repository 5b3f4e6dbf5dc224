package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ecommerce-platform/internal/notification-service/app"
	"ecommerce-platform/internal/notification-service/inbox"
	"ecommerce-platform/internal/notification-service/mailer"
	"ecommerce-platform/internal/pkg/bus"
	"ecommerce-platform/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("notifications-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "notifications-service"))
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

	box, err := inbox.Open(getEnv("INBOX_PATH", "data/notifications-inbox.db"))
	if err != nil {
		slog.Error("failed to open inbox", "error", err)
		os.Exit(1)
	}
	defer box.Close()

	events := bus.NewRedisBus(getEnv("REDIS_ADDR", "localhost:6379"), "notifications-service")
	defer events.Close()

	sender := buildSender()

	dispatcher := app.NewDispatcher(events, box)
	app.NewNotifier(sender).RegisterAll(dispatcher)

	if err := dispatcher.Start(ctx); err != nil {
		slog.Error("failed to start dispatcher", "error", err)
		os.Exit(1)
	}

	slog.Info("notifications service consuming")
	<-ctx.Done()
}

// buildSender picks SMTP when a host is configured, otherwise logs.
func buildSender() mailer.Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return mailer.LogSender{}
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		slog.Error("invalid SMTP_PORT", "error", err)
		os.Exit(1)
	}

	sender, err := mailer.NewSMTPSender(mailer.Config{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnv("SMTP_FROM", "noreply@example.com"),
	})
	if err != nil {
		slog.Error("failed to build smtp sender", "error", err)
		os.Exit(1)
	}
	return sender
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
