package eventsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/ieventlogrepo"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

// ErrEmailRequired is returned when a query omits the mandatory email.
var ErrEmailRequired = errors.New("email is required")

// Projection is the read model returned for one stored lifecycle event.
type Projection struct {
	EventType    string    `json:"eventType"`
	OrderID      string    `json:"orderId"`
	RequestID    string    `json:"requestId"`
	CreatedAt    time.Time `json:"createdAt"`
	ProductCodes []string  `json:"productCodes,omitempty"`
}

// EventsQueryService is the thin read contract in front of the order
// event log.
type EventsQueryService struct {
	eventLogRepo ieventlogrepo.IEventLogRepository
}

// option is a function that configures the EventsQueryService.
type option func(*EventsQueryService)

// MustNewEventsQueryService creates a new EventsQueryService.
func MustNewEventsQueryService(opts ...option) *EventsQueryService {
	s := &EventsQueryService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithEventLogRepository sets the event log repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventLogRepository(repo ieventlogrepo.IEventLogRepository) option {
	return func(s *EventsQueryService) {
		s.eventLogRepo = repo
	}
}

// QueryOrderEvents returns the projections of a customer's event stream,
// ordered chronologically within each event type group. Email is
// mandatory; eventType optionally narrows the stream.
func (s *EventsQueryService) QueryOrderEvents(
	ctx context.Context,
	email string,
	eventType *orderevent.Type,
) ([]Projection, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	events, err := s.eventLogRepo.Query(ctx, email, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}

	projections := make([]Projection, 0, len(events))
	for _, event := range events {
		projection := Projection{
			EventType: event.Type.String(),
			OrderID:   event.OrderID,
			RequestID: event.RequestID,
			CreatedAt: event.CreatedAt,
		}

		snapshot, err := orderevent.UnmarshalSnapshot(event.Payload)
		if err != nil {
			// A corrupt payload should not hide the rest of the stream.
			slog.WarnContext(ctx, "Failed to decode event payload",
				"order_id", event.OrderID,
				"error", err,
			)
		} else {
			projection.ProductCodes = snapshot.ProductCodes
		}

		projections = append(projections, projection)
	}

	return projections, nil
}
