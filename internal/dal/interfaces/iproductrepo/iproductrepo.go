package iproductrepo

import (
	"context"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
)

// IProductRepository defines the interface for product catalog storage.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (*product.Product, error)
	Update(ctx context.Context, p product.Product) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}
