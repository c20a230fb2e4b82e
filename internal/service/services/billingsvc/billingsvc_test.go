package billingsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

type mockCharger struct {
	email       string
	orderID     string
	amountCents int64
	method      string
	calls       int
	err         error
}

func (m *mockCharger) Charge(_ context.Context, email, orderID string, amountCents int64, method string) error {
	m.calls++
	m.email = email
	m.orderID = orderID
	m.amountCents = amountCents
	m.method = method

	return m.err
}

func createdEvent(t *testing.T, snapshot orderevent.Snapshot) orderevent.OrderEvent {
	t.Helper()

	payload, err := snapshot.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	return orderevent.OrderEvent{
		Type:    orderevent.TypeOrderCreated,
		Email:   snapshot.Email,
		OrderID: snapshot.OrderID,
		Payload: payload,
	}
}

func TestProcessOrderCreated_ChargesSnapshotAmount(t *testing.T) {
	charger := &mockCharger{}
	svc := MustNewBillingService(WithCharger(charger))

	event := createdEvent(t, orderevent.Snapshot{
		Email:           "alice@example.com",
		OrderID:         "order-1",
		Payment:         "CREDIT_CARD",
		TotalPriceCents: 1500,
	})

	if err := svc.ProcessOrderCreated(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if charger.calls != 1 {
		t.Fatalf("expected 1 charge, got %d", charger.calls)
	}
	if charger.email != "alice@example.com" || charger.orderID != "order-1" {
		t.Errorf("unexpected charge target: %s / %s", charger.email, charger.orderID)
	}
	if charger.amountCents != 1500 {
		t.Errorf("expected 1500 cents, got %d", charger.amountCents)
	}
	if charger.method != "CREDIT_CARD" {
		t.Errorf("unexpected payment method: %s", charger.method)
	}
}

func TestProcessOrderCreated_BadPayload(t *testing.T) {
	charger := &mockCharger{}
	svc := MustNewBillingService(WithCharger(charger))

	err := svc.ProcessOrderCreated(context.Background(), orderevent.OrderEvent{
		Type:    orderevent.TypeOrderCreated,
		Payload: []byte("not json"),
	})
	if err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if charger.calls != 0 {
		t.Errorf("no charge expected on decode failure, got %d", charger.calls)
	}
}

func TestProcessOrderCreated_ChargerFailurePropagates(t *testing.T) {
	chargeErr := errors.New("gateway timeout")
	svc := MustNewBillingService(WithCharger(&mockCharger{err: chargeErr}))

	event := createdEvent(t, orderevent.Snapshot{OrderID: "order-1"})

	if err := svc.ProcessOrderCreated(context.Background(), event); !errors.Is(err, chargeErr) {
		t.Errorf("expected wrapped charger error, got %v", err)
	}
}
