package bus

import (
	"context"
	"encoding/json"
	"sync"
)

// Recorder is an in-memory Publisher that keeps every published event.
// Used by tests to assert on emission order and payloads.
type Recorder struct {
	mu     sync.Mutex
	events []RecordedEvent
	// Fail, when set, makes every Publish return this error. Lets tests
	// exercise the fire-and-forget contract.
	Fail error
}

// RecordedEvent is one captured publication.
type RecordedEvent struct {
	Topic   string
	Payload any
}

var _ Publisher = (*Recorder)(nil)

// Publish records the event, or fails if Fail is set.
func (r *Recorder) Publish(_ context.Context, topic string, payload any) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{Topic: topic, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns just the topic names, in publication order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}

// MemoryBus is an in-process Publisher/Subscriber used by tests for the
// notification dispatcher. Delivery is synchronous.
type MemoryBus struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

var _ Publisher = (*MemoryBus)(nil)
var _ Subscriber = (*MemoryBus)(nil)

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]Handler)}
}

func (m *MemoryBus) Publish(ctx context.Context, topic string, payload any) error {
	env, err := NewEnvelope(topic, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	m.mu.Lock()
	hs := append([]Handler(nil), m.handlers[topic]...)
	m.mu.Unlock()

	for _, h := range hs {
		// Handler errors are swallowed, matching the broker-backed
		// subscriber's log-and-continue behavior.
		_ = h(ctx, raw)
	}
	return nil
}

func (m *MemoryBus) Subscribe(_ context.Context, topic string, h Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = append(m.handlers[topic], h)
	return nil
}
