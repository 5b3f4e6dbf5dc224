package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/notification-service/inbox"
	"ecommerce-platform/internal/pkg/bus"
)

func newTestInbox(t *testing.T) inbox.Inbox {
	t.Helper()
	box, err := inbox.Open(filepath.Join(t.TempDir(), "inbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = box.Close() })
	return box
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recordingSender) all() []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMail(nil), r.sent...)
}

func TestDispatcherRoutesToHandler(t *testing.T) {
	mem := bus.NewMemoryBus()
	sender := &recordingSender{}
	d := NewDispatcher(mem, newTestInbox(t))
	NewNotifier(sender).RegisterAll(d)
	require.NoError(t, d.Start(context.Background()))

	require.NoError(t, mem.Publish(context.Background(), "client.created", map[string]any{
		"id": "client-1", "email": "ada@example.com", "firstName": "Ada",
	}))

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "Welcome!", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Ada")
}

func TestDispatcherDropsDuplicateEnvelopes(t *testing.T) {
	mem := bus.NewMemoryBus()
	sender := &recordingSender{}
	d := NewDispatcher(mem, newTestInbox(t))
	NewNotifier(sender).RegisterAll(d)
	require.NoError(t, d.Start(context.Background()))

	env, err := bus.NewEnvelope("client.created", map[string]any{
		"id": "client-1", "email": "ada@example.com", "firstName": "Ada",
	})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	// Deliver the same envelope twice, straight through the consumer.
	consumer := d.consume("client.created", NewNotifier(sender).HandleClientCreated)
	require.NoError(t, consumer(context.Background(), raw))
	require.NoError(t, consumer(context.Background(), raw))

	assert.Len(t, sender.all(), 1, "the redelivery must not send a second email")
}

func TestDispatcherSurvivesHandlerFailure(t *testing.T) {
	mem := bus.NewMemoryBus()
	sender := &recordingSender{fail: errors.New("smtp down")}
	d := NewDispatcher(mem, newTestInbox(t))
	NewNotifier(sender).RegisterAll(d)
	require.NoError(t, d.Start(context.Background()))

	// A failing handler must not error the subscription.
	require.NoError(t, mem.Publish(context.Background(), "client.created", map[string]any{
		"id": "client-1", "email": "ada@example.com", "firstName": "Ada",
	}))

	// Later events still flow.
	sender.fail = nil
	require.NoError(t, mem.Publish(context.Background(), "client.created", map[string]any{
		"id": "client-2", "email": "grace@example.com", "firstName": "Grace",
	}))
	require.Len(t, sender.all(), 1)
	assert.Equal(t, "grace@example.com", sender.all()[0].To)
}

func TestDispatcherDropsMalformedPayloads(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(bus.NewMemoryBus(), newTestInbox(t))

	consumer := d.consume("client.created", NewNotifier(sender).HandleClientCreated)
	require.NoError(t, consumer(context.Background(), []byte("not json")))
	assert.Empty(t, sender.all())
}
