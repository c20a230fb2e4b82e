package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/siecolabs/ecommerce-orders/internal/dal/postgres"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
)

const productColumns = "id, name, code, model, url, price_cents, created_at, updated_at"

// ProductRepository implements the product catalog repository for PostgreSQL.
type ProductRepository struct {
	client *postgres.Client
}

// NewProductRepository creates a new product repository.
func NewProductRepository(client *postgres.Client) *ProductRepository {
	return &ProductRepository{
		client: client,
	}
}

// Insert adds a new product to the catalog.
func (r *ProductRepository) Insert(ctx context.Context, p product.Product) (*product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns("id", "name", "code", "model", "url", "price_cents", "created_at", "updated_at").
		Values(p.ID, p.Name, p.Code, p.Model, p.URL, p.PriceCents, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING " + productColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p product.Product) (*product.Product, error) {
	query, args, err := sq.Update("products").
		Set("name", p.Name).
		Set("code", p.Code).
		Set("model", p.Model).
		Set("url", p.URL).
		Set("price_cents", p.PriceCents).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + productColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.client.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}

// Query retrieves products based on filter criteria.
func (r *ProductRepository) Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	builder := sq.Select(
		"id", "name", "code", "model", "url", "price_cents", "created_at", "updated_at",
	).
		From("products").
		OrderBy("code ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.Codes) > 0 {
		builder = builder.Where(sq.Eq{"code": filter.Codes})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var p product.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Code, &p.Model, &p.URL, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *ProductRepository) scanOne(ctx context.Context, query string, args []interface{}) (*product.Product, error) {
	var p product.Product
	err := r.client.Pool().QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Code, &p.Model, &p.URL, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return &p, nil
}
