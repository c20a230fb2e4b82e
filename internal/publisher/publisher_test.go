package publisher

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

// mockEventLog is an in-memory stand-in for the event log writer keyed by
// (pk, sk), so redelivery overwrites instead of duplicating.
type mockEventLog struct {
	mu     sync.Mutex
	events map[string]orderevent.OrderEvent
}

func newMockEventLog() *mockEventLog {
	return &mockEventLog{events: make(map[string]orderevent.OrderEvent)}
}

func (m *mockEventLog) append(_ context.Context, event orderevent.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, sk := event.Keys()
	m.events[pk+"|"+sk] = event

	return nil
}

func (m *mockEventLog) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.events))
	for k := range m.events {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// mockDeadLetterSink records dead-lettered deliveries.
type mockDeadLetterSink struct {
	mu      sync.Mutex
	letters []DeadLetter
}

func (m *mockDeadLetterSink) DeadLetter(_ context.Context, d DeadLetter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.letters = append(m.letters, d)

	return nil
}

func (m *mockDeadLetterSink) all() []DeadLetter {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]DeadLetter(nil), m.letters...)
}

func testEvent(t orderevent.Type) orderevent.OrderEvent {
	return orderevent.OrderEvent{
		Type:      t,
		Email:     "alice@example.com",
		OrderID:   "order-1",
		RequestID: "req-1",
		CreatedAt: time.Now(),
	}
}

func TestPublishDeliversToMatchingSubscribers(t *testing.T) {
	sink := &mockDeadLetterSink{}
	p := NewPublisher(sink)

	var mu sync.Mutex
	delivered := map[string]int{}
	record := func(name string) Handler {
		return func(context.Context, orderevent.OrderEvent) error {
			mu.Lock()
			defer mu.Unlock()
			delivered[name]++

			return nil
		}
	}

	p.Subscribe(Subscription{Name: "all", Handler: record("all")})
	p.Subscribe(Subscription{
		Name:    "created-only",
		Filter:  func(t orderevent.Type) bool { return t == orderevent.TypeOrderCreated },
		Handler: record("created-only"),
	})

	p.Publish(testEvent(orderevent.TypeOrderCreated))
	p.Publish(testEvent(orderevent.TypeOrderDeleted))
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	if delivered["all"] != 2 {
		t.Errorf("unfiltered subscriber expected 2 deliveries, got %d", delivered["all"])
	}
	if delivered["created-only"] != 1 {
		t.Errorf("filtered subscriber expected 1 delivery, got %d", delivered["created-only"])
	}
	if len(sink.all()) != 0 {
		t.Errorf("no dead letters expected, got %d", len(sink.all()))
	}
}

func TestFailingSubscriberDeadLettersAfterRetryBudget(t *testing.T) {
	sink := &mockDeadLetterSink{}
	log := newMockEventLog()
	p := NewPublisher(sink)

	p.Subscribe(Subscription{Name: "event-log", Handler: log.append})

	var mu sync.Mutex
	attempts := 0
	p.Subscribe(Subscription{
		Name: "billing",
		Handler: func(context.Context, orderevent.OrderEvent) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++

			return errors.New("billing gateway unavailable")
		},
	})

	p.Publish(testEvent(orderevent.TypeOrderCreated))
	p.Wait()

	mu.Lock()
	gotAttempts := attempts
	mu.Unlock()
	if gotAttempts != 3 {
		t.Errorf("expected 3 delivery attempts, got %d", gotAttempts)
	}

	letters := sink.all()
	if len(letters) != 1 {
		t.Fatalf("expected 1 dead letter, got %d", len(letters))
	}
	if letters[0].Subscriber != "billing" {
		t.Errorf("unexpected dead-lettered subscriber: %s", letters[0].Subscriber)
	}
	if letters[0].Attempts != 3 {
		t.Errorf("expected 3 recorded attempts, got %d", letters[0].Attempts)
	}

	// The billing failure must not affect the independent event-log writer.
	if len(log.keys()) != 1 {
		t.Errorf("event log expected 1 event, got %d", len(log.keys()))
	}
}

func TestRedeliveryIsIdempotentInEventLog(t *testing.T) {
	sink := &mockDeadLetterSink{}
	log := newMockEventLog()
	p := NewPublisher(sink)
	p.Subscribe(Subscription{Name: "event-log", Handler: log.append})

	event := testEvent(orderevent.TypeOrderCreated)
	p.Publish(event)
	p.Publish(event)
	p.Wait()

	if len(log.keys()) != 1 {
		t.Errorf("redelivery of the same composite key must not duplicate, got %d entries", len(log.keys()))
	}
}

func TestSubscribeDefaults(t *testing.T) {
	p := NewPublisher(&mockDeadLetterSink{})
	p.Subscribe(Subscription{Name: "s", Handler: func(context.Context, orderevent.OrderEvent) error { return nil }})

	if p.subscriptions[0].MaxAttempts != defaultMaxAttempts {
		t.Errorf("expected default max attempts %d, got %d", defaultMaxAttempts, p.subscriptions[0].MaxAttempts)
	}
	if !p.subscriptions[0].Filter(orderevent.TypeProductDeleted) {
		t.Error("nil filter must match every event type")
	}
}
