package eventsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

type mockEventLogRepo struct {
	events    []orderevent.OrderEvent
	lastEmail string
	lastType  *orderevent.Type
	err       error
}

func (m *mockEventLogRepo) Append(_ context.Context, event orderevent.OrderEvent) error {
	m.events = append(m.events, event)

	return nil
}

func (m *mockEventLogRepo) Query(_ context.Context, email string, eventType *orderevent.Type) ([]orderevent.OrderEvent, error) {
	m.lastEmail = email
	m.lastType = eventType

	return m.events, m.err
}

func TestQueryOrderEvents_EmailRequired(t *testing.T) {
	svc := MustNewEventsQueryService(WithEventLogRepository(&mockEventLogRepo{}))

	_, err := svc.QueryOrderEvents(context.Background(), "", nil)
	if !errors.Is(err, ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestQueryOrderEvents_ProjectsStoredEvents(t *testing.T) {
	payload, err := orderevent.Snapshot{
		Email:        "alice@example.com",
		OrderID:      "order-1",
		ProductCodes: []string{"P1", "P2"},
	}.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	createdAt := time.UnixMilli(1700000000000)
	repo := &mockEventLogRepo{events: []orderevent.OrderEvent{{
		Type:      orderevent.TypeOrderCreated,
		Email:     "alice@example.com",
		OrderID:   "order-1",
		RequestID: "req-1",
		Payload:   payload,
		CreatedAt: createdAt,
	}}}
	svc := MustNewEventsQueryService(WithEventLogRepository(repo))

	projections, err := svc.QueryOrderEvents(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projections))
	}

	p := projections[0]
	if p.EventType != "ORDER_CREATED" {
		t.Errorf("unexpected event type: %s", p.EventType)
	}
	if p.OrderID != "order-1" || p.RequestID != "req-1" {
		t.Errorf("unexpected identifiers: %s / %s", p.OrderID, p.RequestID)
	}
	if !p.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected createdAt: %v", p.CreatedAt)
	}
	if len(p.ProductCodes) != 2 {
		t.Errorf("expected product codes from the snapshot, got %v", p.ProductCodes)
	}

	if repo.lastEmail != "alice@example.com" {
		t.Errorf("email filter not passed through, got %q", repo.lastEmail)
	}
}

func TestQueryOrderEvents_PassesTypeFilter(t *testing.T) {
	repo := &mockEventLogRepo{}
	svc := MustNewEventsQueryService(WithEventLogRepository(repo))

	eventType := orderevent.TypeOrderDeleted
	if _, err := svc.QueryOrderEvents(context.Background(), "alice@example.com", &eventType); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastType == nil || *repo.lastType != orderevent.TypeOrderDeleted {
		t.Errorf("type filter not passed through, got %v", repo.lastType)
	}
}

func TestQueryOrderEvents_CorruptPayloadDoesNotHideStream(t *testing.T) {
	repo := &mockEventLogRepo{events: []orderevent.OrderEvent{{
		Type:      orderevent.TypeOrderCreated,
		Email:     "alice@example.com",
		OrderID:   "order-1",
		Payload:   []byte("not json"),
		CreatedAt: time.Now(),
	}}}
	svc := MustNewEventsQueryService(WithEventLogRepository(repo))

	projections, err := svc.QueryOrderEvents(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("expected the event despite the corrupt payload, got %d", len(projections))
	}
	if projections[0].ProductCodes != nil {
		t.Errorf("corrupt payload must leave product codes empty, got %v", projections[0].ProductCodes)
	}
}

func TestQueryOrderEvents_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	svc := MustNewEventsQueryService(WithEventLogRepository(&mockEventLogRepo{err: repoErr}))

	_, err := svc.QueryOrderEvents(context.Background(), "alice@example.com", nil)
	if !errors.Is(err, repoErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}
