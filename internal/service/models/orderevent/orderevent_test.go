package orderevent

import (
	"sort"
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	createdAt := time.UnixMilli(1700000000000)
	event := OrderEvent{
		Type:      TypeOrderCreated,
		Email:     "alice@example.com",
		OrderID:   "order-1",
		CreatedAt: createdAt,
	}

	pk, sk := event.Keys()

	if pk != "#order_alice@example.com" {
		t.Errorf("unexpected partition key: %s", pk)
	}
	if sk != "ORDER_CREATED#1700000000000#order-1" {
		t.Errorf("unexpected sort key: %s", sk)
	}
}

func TestKeysIdentical(t *testing.T) {
	createdAt := time.Now()
	a := OrderEvent{Type: TypeOrderDeleted, Email: "a@b.c", OrderID: "o", CreatedAt: createdAt}
	b := OrderEvent{Type: TypeOrderDeleted, Email: "a@b.c", OrderID: "o", CreatedAt: createdAt}

	apk, ask := a.Keys()
	bpk, bsk := b.Keys()
	if apk != bpk || ask != bsk {
		t.Error("identical events must produce identical composite keys")
	}
}

func TestSortKeyChronologicalOrder(t *testing.T) {
	base := time.UnixMilli(1700000000000)

	keys := []string{
		SortKey(TypeOrderCreated, base.Add(3*time.Second), "o3"),
		SortKey(TypeOrderCreated, base.Add(time.Second), "o1"),
		SortKey(TypeOrderCreated, base.Add(2*time.Second), "o2"),
	}

	sort.Strings(keys)

	want := []string{
		SortKey(TypeOrderCreated, base.Add(time.Second), "o1"),
		SortKey(TypeOrderCreated, base.Add(2*time.Second), "o2"),
		SortKey(TypeOrderCreated, base.Add(3*time.Second), "o3"),
	}
	for i := range keys {
		if keys[i] != want[i] {
			t.Fatalf("lexicographic order diverges from chronological order at %d: %s", i, keys[i])
		}
	}
}

func TestTypeFromSortKey(t *testing.T) {
	sk := SortKey(TypeOrderDeleted, time.Now(), "order-9")

	got, err := TypeFromSortKey(sk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TypeOrderDeleted {
		t.Errorf("expected ORDER_DELETED, got %s", got)
	}

	if _, err := TypeFromSortKey("garbage"); err == nil {
		t.Error("expected error for malformed sort key")
	}
}

func TestExpiresAt(t *testing.T) {
	createdAt := time.Now()

	event := OrderEvent{CreatedAt: createdAt}
	if !event.ExpiresAt().IsZero() {
		t.Error("event without TTL must not expire")
	}

	event.TTL = time.Hour
	if got := event.ExpiresAt(); !got.Equal(createdAt.Add(time.Hour)) {
		t.Errorf("unexpected expiry: %v", got)
	}
}

func TestParseType(t *testing.T) {
	for _, valid := range []string{"ORDER_CREATED", "ORDER_DELETED", "PRODUCT_UPDATED"} {
		if _, err := ParseType(valid); err != nil {
			t.Errorf("expected %s to parse, got %v", valid, err)
		}
	}

	if _, err := ParseType("ORDER_SHIPPED"); err == nil {
		t.Error("expected undefined event type to be rejected")
	}
}
