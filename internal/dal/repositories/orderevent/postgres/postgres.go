package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/siecolabs/ecommerce-orders/internal/dal/postgres"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

// EventLogRepository implements the order event log for PostgreSQL. The
// table mimics a partition/sort keyed document store: (pk, sk) is the
// primary key and email carries a secondary index for cross-partition
// lookups.
type EventLogRepository struct {
	client *postgres.Client
}

// NewEventLogRepository creates a new event log repository.
func NewEventLogRepository(client *postgres.Client) *EventLogRepository {
	return &EventLogRepository{
		client: client,
	}
}

// Append upserts the event by its composite key. The write policy is
// scoped: partition keys outside the "#order_" prefix are rejected.
func (r *EventLogRepository) Append(ctx context.Context, event orderevent.OrderEvent) error {
	pk, sk := event.Keys()
	if !strings.HasPrefix(pk, orderevent.PartitionPrefix) {
		return fmt.Errorf("partition key %q outside the order-events scope", pk)
	}

	var expiresAt *time.Time
	if exp := event.ExpiresAt(); !exp.IsZero() {
		expiresAt = &exp
	}

	query, args, err := sq.Insert("order_events").
		Columns(
			"pk",
			"sk",
			"email",
			"order_id",
			"request_id",
			"event_type",
			"payload",
			"created_at",
			"expires_at",
		).
		Values(
			pk,
			sk,
			event.Email,
			event.OrderID,
			event.RequestID,
			event.Type.String(),
			event.Payload,
			event.CreatedAt,
			expiresAt,
		).
		Suffix(`ON CONFLICT (pk, sk) DO UPDATE SET
			request_id = EXCLUDED.request_id,
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build append query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append order event: %w", err)
	}

	return nil
}

// Query returns the events of a customer's stream ordered by sort key
// ascending. The event type narrows via the sort key prefix, the way a
// document store would use begins_with on the sort key. Events past their
// TTL are filtered out even if the reaper has not removed them yet.
func (r *EventLogRepository) Query(
	ctx context.Context,
	email string,
	eventType *orderevent.Type,
) ([]orderevent.OrderEvent, error) {
	builder := sq.Select(
		"email", "order_id", "request_id", "event_type", "payload", "created_at", "expires_at",
	).
		From("order_events").
		Where(sq.Eq{"email": email}).
		Where(sq.Or{
			sq.Eq{"expires_at": nil},
			sq.Gt{"expires_at": time.Now()},
		}).
		OrderBy("sk ASC").
		PlaceholderFormat(sq.Dollar)

	if eventType != nil {
		builder = builder.Where(sq.Like{"sk": eventType.String() + "#%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	var result []orderevent.OrderEvent
	for rows.Next() {
		var (
			event     orderevent.OrderEvent
			eventType string
			expiresAt *time.Time
		)
		err := rows.Scan(
			&event.Email,
			&event.OrderID,
			&event.RequestID,
			&eventType,
			&event.Payload,
			&event.CreatedAt,
			&expiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}

		event.Type, err = orderevent.ParseType(eventType)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored event type: %w", err)
		}
		if expiresAt != nil {
			event.TTL = expiresAt.Sub(event.CreatedAt)
		}

		result = append(result, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
