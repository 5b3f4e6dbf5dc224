// Package bus defines the event transport ports shared by producers and the
// notification consumer, plus the Redis-backed implementation.
//
// Delivery is fire-and-forget on the producer side: a failed publish is
// logged and never rolled back or retried. Consumers compensate by
// deduplicating on the envelope id, so a replayed message is harmless.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher delivers one domain event to a named topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Handler processes the raw payload of one event.
type Handler func(ctx context.Context, payload []byte) error

// Subscriber attaches a handler to a topic. Implementations invoke the
// handler once per received message and must not stop consuming when the
// handler returns an error.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h Handler) error
}

// Envelope is the wire format for every event. The ID doubles as the
// consumer-side dedup key.
type Envelope struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope wraps a payload for transport.
func NewEnvelope(topic string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("bus: encode payload for %q: %w", topic, err)
	}
	return &Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Emit publishes best-effort: a failure is logged, never propagated. This is
// the single place the platform's at-most-one-attempt delivery contract
// lives.
func Emit(ctx context.Context, p Publisher, topic string, payload any) {
	if err := p.Publish(ctx, topic, payload); err != nil {
		slog.ErrorContext(ctx, "event publish failed", "topic", topic, "error", err)
	}
}
