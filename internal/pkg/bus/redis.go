package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBus is a Publisher and Subscriber over Redis pub/sub. One instance is
// constructed per process at startup and shared; the underlying client is
// safe for concurrent use.
type RedisBus struct {
	client      *redis.Client
	serviceName string
}

var _ Publisher = (*RedisBus)(nil)
var _ Subscriber = (*RedisBus)(nil)

// NewRedisBus connects to the broker at addr. serviceName labels log lines
// so interleaved consumers can be told apart.
func NewRedisBus(addr, serviceName string) *RedisBus {
	return &RedisBus{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

// Publish wraps payload in an Envelope and sends it to topic.
func (b *RedisBus) Publish(ctx context.Context, topic string, payload any) error {
	env, err := NewEnvelope(topic, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("bus: encode envelope for %q: %w", topic, err)
	}
	if err := b.client.Publish(ctx, topic, raw).Err(); err != nil {
		return fmt.Errorf("bus: publish to %q: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic until ctx is cancelled. Each message is handed to
// h; a handler error is logged and consumption continues.
func (b *RedisBus) Subscribe(ctx context.Context, topic string, h Handler) error {
	sub := b.client.Subscribe(ctx, topic)
	// Wait for the subscription to be confirmed before returning so callers
	// can rely on the consumer being live.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("bus: subscribe to %q: %w", topic, err)
	}

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				if err := h(ctx, []byte(msg.Payload)); err != nil {
					slog.ErrorContext(ctx, "event handler failed",
						"service", b.serviceName, "topic", topic, "error", err)
				}
			}
		}
	}()
	return nil
}

// Close releases the underlying Redis connection.
func (b *RedisBus) Close() error {
	return b.client.Close()
}
