package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/spf13/viper"
)

type mockMailer struct {
	mu   sync.Mutex
	sent []string
	ch   chan struct{}
}

func newMockMailer() *mockMailer {
	return &mockMailer{ch: make(chan struct{}, 64)}
}

func (m *mockMailer) SendOrderEmail(_ context.Context, _, orderID string) error {
	m.mu.Lock()
	m.sent = append(m.sent, orderID)
	m.mu.Unlock()
	m.ch <- struct{}{}

	return nil
}

func (m *mockMailer) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %d sends, got %d", n, i)
		}
	}
}

func (m *mockMailer) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.sent...)
}

func configureWorker(t *testing.T, queueSize, batchSize int) {
	t.Helper()
	viper.Set("email.queue_size", queueSize)
	viper.Set("email.batch_size", batchSize)
	viper.Set("email.flush_interval_seconds", 3600)
	viper.Set("email.send_limit", 2)
	t.Cleanup(func() {
		viper.Set("email.queue_size", 0)
		viper.Set("email.batch_size", 0)
		viper.Set("email.flush_interval_seconds", 0)
		viper.Set("email.send_limit", 0)
	})
}

func TestWorker_FlushesFullBatch(t *testing.T) {
	configureWorker(t, 16, 2)

	mailer := newMockMailer()
	worker := NewWorker(mailer)

	go worker.Start(context.Background())
	defer worker.Stop()

	for _, id := range []string{"order-1", "order-2"} {
		err := worker.Enqueue(context.Background(), orderevent.OrderEvent{
			Type:    orderevent.TypeOrderCreated,
			Email:   "alice@example.com",
			OrderID: id,
		})
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	mailer.waitFor(t, 2)

	sent := mailer.all()
	if len(sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sent))
	}
}

func TestWorker_StopFlushesPartialBatch(t *testing.T) {
	configureWorker(t, 16, 10)

	mailer := newMockMailer()
	worker := NewWorker(mailer)

	started := make(chan struct{})
	go func() {
		close(started)
		worker.Start(context.Background())
	}()
	<-started

	if err := worker.Enqueue(context.Background(), orderevent.OrderEvent{
		Type:    orderevent.TypeOrderCreated,
		Email:   "alice@example.com",
		OrderID: "order-1",
	}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	// Give the drain loop a chance to pull the event into the batch before
	// the stop signal races it.
	time.Sleep(50 * time.Millisecond)
	worker.Stop()

	if got := mailer.all(); len(got) != 1 {
		t.Fatalf("expected the partial batch to flush on stop, got %d sends", len(got))
	}
}

func TestWorker_EnqueueRejectsWhenFull(t *testing.T) {
	configureWorker(t, 1, 10)

	worker := NewWorker(newMockMailer())
	// Not started: the queue cannot drain.

	if err := worker.Enqueue(context.Background(), orderevent.OrderEvent{OrderID: "order-1"}); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	if err := worker.Enqueue(context.Background(), orderevent.OrderEvent{OrderID: "order-2"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}
