package iorderrepo

import (
	"context"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)

	// Delete removes the order keyed by (email, orderId) and returns the
	// removed row, or order.ErrNotFound.
	Delete(ctx context.Context, email, orderID string) (*order.Order, error)

	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
