package orderevents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/eventsvc"
)

type service interface {
	QueryOrderEvents(ctx context.Context, email string, eventType *orderevent.Type) ([]eventsvc.Projection, error)
}

// queryOrderEventsRequest requires email; eventType optionally narrows the
// stream.
type queryOrderEventsRequest struct {
	Email     string `schema:"email,required"`
	EventType string `schema:"eventType,omitempty"`
}

func ListOrderEvents(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrderEventsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	var eventType *orderevent.Type
	if query.EventType != "" {
		parsed, err := orderevent.ParseType(query.EventType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		eventType = &parsed
	}

	events, err := service.QueryOrderEvents(r.Context(), query.Email, eventType)
	if err != nil {
		if errors.Is(err, eventsvc.ErrEmailRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting order events", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
