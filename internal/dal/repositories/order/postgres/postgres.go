package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/siecolabs/ecommerce-orders/internal/dal/postgres"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/payment"
)

const orderColumns = "customer_email, order_id, shipping_type, shipping_carrier, " +
	"payment_method, total_price_cents, product_codes, status, created_at, updated_at"

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

// Insert persists a new order.
func (r *OrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"customer_email",
			"order_id",
			"shipping_type",
			"shipping_carrier",
			"payment_method",
			"total_price_cents",
			"product_codes",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			o.CustomerEmail,
			o.ID,
			o.ShippingType,
			o.ShippingCarrier,
			o.Payment.String(),
			o.TotalPriceCents,
			o.ProductCodes,
			o.Status.String(),
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

// Delete removes the order keyed by (email, orderId) and returns the removed
// row, or order.ErrNotFound when no such order exists.
func (r *OrderRepository) Delete(ctx context.Context, email, orderID string) (*order.Order, error) {
	query, args, err := sq.Delete("orders").
		Where(sq.Eq{"customer_email": email, "order_id": orderID}).
		Suffix("RETURNING " + orderColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete query: %w", err)
	}

	deleted, err := scanOrder(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	return deleted, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *OrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(
		"customer_email",
		"order_id",
		"shipping_type",
		"shipping_carrier",
		"payment_method",
		"total_price_cents",
		"product_codes",
		"status",
		"created_at",
		"updated_at",
	).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.CustomerEmail != "" {
		builder = builder.Where(sq.Eq{"customer_email": filter.CustomerEmail})
	}
	if filter.OrderID != "" {
		builder = builder.Where(sq.Eq{"order_id": filter.OrderID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o             order.Order
		paymentMethod string
		status        string
	)

	err := row.Scan(
		&o.CustomerEmail,
		&o.ID,
		&o.ShippingType,
		&o.ShippingCarrier,
		&paymentMethod,
		&o.TotalPriceCents,
		&o.ProductCodes,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Payment, err = payment.ParseMethod(paymentMethod)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)

	return &o, nil
}
