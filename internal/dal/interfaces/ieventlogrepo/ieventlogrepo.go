package ieventlogrepo

import (
	"context"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

// IEventLogRepository defines the interface for the append-only order
// event log.
type IEventLogRepository interface {
	// Append upserts the event by its composite (partition, sort) key, so
	// redelivery of the same event leaves the log unchanged.
	Append(ctx context.Context, event orderevent.OrderEvent) error

	// Query returns the events of a customer's stream ordered by sort key
	// ascending, optionally narrowed to one event type. Expired events are
	// excluded.
	Query(ctx context.Context, email string, eventType *orderevent.Type) ([]orderevent.OrderEvent, error)
}
