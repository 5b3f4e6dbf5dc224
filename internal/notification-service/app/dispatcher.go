// Package app routes platform events to notification handlers.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ecommerce-platform/internal/notification-service/inbox"
	"ecommerce-platform/internal/pkg/bus"
)

// EventHandler reacts to one deduplicated event.
type EventHandler func(ctx context.Context, env bus.Envelope) error

// Dispatcher subscribes to topics and fans events out to handlers.
// Redeliveries are dropped through the inbox; handler failures are logged
// and never stop consumption.
type Dispatcher struct {
	sub      bus.Subscriber
	inbox    inbox.Inbox
	handlers map[string]EventHandler
}

func NewDispatcher(sub bus.Subscriber, box inbox.Inbox) *Dispatcher {
	return &Dispatcher{
		sub:      sub,
		inbox:    box,
		handlers: make(map[string]EventHandler),
	}
}

// Register attaches a handler to a topic. Call before Start.
func (d *Dispatcher) Register(topic string, h EventHandler) {
	d.handlers[topic] = h
}

// Start subscribes every registered topic.
func (d *Dispatcher) Start(ctx context.Context) error {
	for topic, handler := range d.handlers {
		if err := d.sub.Subscribe(ctx, topic, d.consume(topic, handler)); err != nil {
			return fmt.Errorf("dispatcher: subscribe %q: %w", topic, err)
		}
		slog.InfoContext(ctx, "subscribed", "topic", topic)
	}
	return nil
}

func (d *Dispatcher) consume(topic string, handler EventHandler) bus.Handler {
	return func(ctx context.Context, raw []byte) error {
		var env bus.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			slog.ErrorContext(ctx, "malformed event dropped", "topic", topic, "error", err)
			return nil
		}

		fresh, err := d.inbox.MarkIfNew(env.ID)
		if err != nil {
			return fmt.Errorf("dispatcher: inbox check for %q: %w", env.ID, err)
		}
		if !fresh {
			slog.DebugContext(ctx, "duplicate event dropped", "topic", topic, "event_id", env.ID)
			return nil
		}

		if err := handler(ctx, env); err != nil {
			slog.ErrorContext(ctx, "notification handler failed",
				"topic", topic, "event_id", env.ID, "error", err)
		}
		return nil
	}
}
