package orderevent

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// PartitionPrefix isolates order-event rows from other tenants of the
// events table. Appends with a partition key missing this prefix are
// rejected by the repository.
const PartitionPrefix = "#order_"

// Type is the lifecycle event type tag used for subscriber filtering.
type Type string

const (
	TypeOrderCreated   Type = "ORDER_CREATED"
	TypeOrderDeleted   Type = "ORDER_DELETED"
	TypeProductCreated Type = "PRODUCT_CREATED"
	TypeProductUpdated Type = "PRODUCT_UPDATED"
	TypeProductDeleted Type = "PRODUCT_DELETED"
)

var ErrInvalidType = errors.New("invalid order event type")

func (t Type) String() string {
	return string(t)
}

// IsOrderEvent reports whether the type belongs to the order lifecycle
// stream, as opposed to product-change notifications.
func (t Type) IsOrderEvent() bool {
	return t == TypeOrderCreated || t == TypeOrderDeleted
}

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeOrderCreated, TypeOrderDeleted,
		TypeProductCreated, TypeProductUpdated, TypeProductDeleted:
		return Type(s), nil
	default:
		return "", ErrInvalidType
	}
}

// OrderEvent is one immutable entry of a customer's lifecycle event stream.
type OrderEvent struct {
	Type      Type          `json:"eventType"`
	Email     string        `json:"email"`
	OrderID   string        `json:"orderId"`
	RequestID string        `json:"requestId"`
	Payload   []byte        `json:"payload"`
	CreatedAt time.Time     `json:"createdAt"`
	TTL       time.Duration `json:"-"`
}

// PartitionKey builds the partition key for a customer's event stream.
func PartitionKey(email string) string {
	return PartitionPrefix + email
}

// SortKey builds the sort key: eventType # unix-millis # orderId. Millis
// stay 13 digits wide for the next few centuries, so lexicographic order on
// the key matches chronological order within an event type group.
func SortKey(t Type, createdAt time.Time, orderID string) string {
	return t.String() + "#" + strconv.FormatInt(createdAt.UnixMilli(), 10) + "#" + orderID
}

// Keys returns the composite (partition, sort) key of the event. Identical
// keys identify identical logical events, which makes appends idempotent.
func (e *OrderEvent) Keys() (string, string) {
	return PartitionKey(e.Email), SortKey(e.Type, e.CreatedAt, e.OrderID)
}

// ExpiresAt returns the moment the event becomes eligible for physical
// deletion, or the zero time if it never expires.
func (e *OrderEvent) ExpiresAt() time.Time {
	if e.TTL <= 0 {
		return time.Time{}
	}

	return e.CreatedAt.Add(e.TTL)
}

// TypeFromSortKey recovers the event type tag from a stored sort key.
func TypeFromSortKey(sk string) (Type, error) {
	idx := strings.Index(sk, "#")
	if idx < 0 {
		return "", ErrInvalidType
	}

	return ParseType(sk[:idx])
}
