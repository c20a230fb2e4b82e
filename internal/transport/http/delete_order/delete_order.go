package deleteorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
)

type service interface {
	DeleteOrder(ctx context.Context, email, orderID string) (*order.Order, error)
}

// deleteOrderRequest requires both query parameters, matching the routing
// layer contract.
type deleteOrderRequest struct {
	Email   string `schema:"email,required"`
	OrderID string `schema:"orderId,required"`
}

func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &deleteOrderRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	deletedOrder, err := service.DeleteOrder(r.Context(), query.Email, query.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error deleting order", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(deletedOrder); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
