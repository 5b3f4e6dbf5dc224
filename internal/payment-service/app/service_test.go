package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-platform/internal/payment-service/domain"
	"ecommerce-platform/internal/pkg/apperr"
	"ecommerce-platform/internal/pkg/bus"
)

type fakeRepo struct {
	payments map[string]*domain.Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: make(map[string]*domain.Payment)}
}

var _ Repository = (*fakeRepo)(nil)

func (f *fakeRepo) Create(_ context.Context, p *domain.Payment) error {
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	if p, ok := f.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "payment %s not found", id)
}

func (f *fakeRepo) FindByOrderID(_ context.Context, orderID string) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0)
	for _, p := range f.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Save(_ context.Context, p *domain.Payment) error {
	if _, ok := f.payments[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "payment %s not found", p.ID)
	}
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

type fakeOrders struct {
	orders map[string]Order
}

func (f *fakeOrders) Order(_ context.Context, id string) (*Order, error) {
	if o, ok := f.orders[id]; ok {
		return &o, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
}

type stubCharger struct {
	txnID   string
	fail    error
	charges int
	refunds int
}

func (c *stubCharger) Charge(_ context.Context, _ string, _ float64) (string, error) {
	c.charges++
	if c.fail != nil {
		return "", c.fail
	}
	return c.txnID, nil
}

func (c *stubCharger) Refund(_ context.Context, _ string, _ float64) error {
	c.refunds++
	return nil
}

func newService(repo *fakeRepo, charger *stubCharger, events *bus.Recorder) *Service {
	orders := &fakeOrders{orders: map[string]Order{
		"order-1": {ID: "order-1", Total: 51.00, Status: "PENDING"},
	}}
	return NewService(repo, orders, charger, events)
}

func validInput() ProcessPaymentInput {
	return ProcessPaymentInput{OrderID: "order-1", Amount: 51.00, Method: "CREDIT_CARD"}
}

func TestProcessPaymentCaptures(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := newService(repo, &stubCharger{txnID: "txn_123"}, events)

	payment, err := svc.ProcessPayment(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, payment.Status)
	assert.Equal(t, "txn_123", payment.TransactionID)
	assert.Equal(t, []string{"payment.processed"}, events.Topics())

	stored, err := repo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestProcessPaymentDeclinePersistsFailedAttempt(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	svc := newService(repo, &stubCharger{fail: errors.New("card declined")}, events)

	_, err := svc.ProcessPayment(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPaymentDeclined))

	// The declined attempt is still a ledger row, never COMPLETED.
	attempts, err := repo.FindByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, domain.StatusFailed, attempts[0].Status)
	assert.Equal(t, "card declined", attempts[0].FailureReason)
	assert.Empty(t, attempts[0].TransactionID)

	require.Equal(t, []string{"payment.failed"}, events.Topics())
	payload, ok := events.Events()[0].Payload.(struct {
		ID      string `json:"id"`
		OrderID string `json:"orderId"`
		Reason  string `json:"reason"`
	})
	require.True(t, ok)
	assert.Equal(t, "order-1", payload.OrderID)
	assert.Equal(t, attempts[0].ID, payload.ID)
}

func TestProcessPaymentAmountMismatch(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	charger := &stubCharger{txnID: "txn_123"}
	svc := newService(repo, charger, events)

	in := validInput()
	in.Amount = 50.00

	_, err := svc.ProcessPayment(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Zero(t, charger.charges, "a mismatched amount must never reach the provider")
	assert.Empty(t, repo.payments)
	assert.Empty(t, events.Topics())
}

func TestProcessPaymentValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProcessPaymentInput)
	}{
		{"unknown method", func(in *ProcessPaymentInput) { in.Method = "IOU" }},
		{"missing order", func(in *ProcessPaymentInput) { in.OrderID = "" }},
		{"non-positive amount", func(in *ProcessPaymentInput) { in.Amount = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newService(repo, &stubCharger{txnID: "txn_123"}, &bus.Recorder{})

			in := validInput()
			tc.mutate(&in)

			_, err := svc.ProcessPayment(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Empty(t, repo.payments)
		})
	}
}

func TestProcessPaymentUnknownOrder(t *testing.T) {
	svc := newService(newFakeRepo(), &stubCharger{txnID: "txn_123"}, &bus.Recorder{})

	in := validInput()
	in.OrderID = "order-404"

	_, err := svc.ProcessPayment(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRefundPaymentFromAnyStatus(t *testing.T) {
	repo := newFakeRepo()
	events := &bus.Recorder{}
	charger := &stubCharger{txnID: "txn_123"}
	svc := newService(repo, charger, events)

	payment, err := svc.ProcessPayment(context.Background(), validInput())
	require.NoError(t, err)

	refunded, err := svc.RefundPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	assert.Equal(t, 1, charger.refunds)

	// Refunding again converges on the same state and emits again.
	again, err := svc.RefundPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, again.Status)

	assert.Equal(t, []string{"payment.processed", "payment.refunded", "payment.refunded"}, events.Topics())
}

func TestRefundPaymentMissing(t *testing.T) {
	svc := newService(newFakeRepo(), &stubCharger{}, &bus.Recorder{})

	_, err := svc.RefundPayment(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
