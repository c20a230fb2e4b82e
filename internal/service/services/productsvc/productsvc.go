package productsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/iproductrepo"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
)

// eventPublisher hands product-change events to the fan-out broker.
type eventPublisher interface {
	Publish(event orderevent.OrderEvent)
}

// ProductService manages the product catalog. Every mutation emits a
// product-change event through the shared fan-out publisher.
type ProductService struct {
	productRepo iproductrepo.IProductRepository
	publisher   eventPublisher
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product repository for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.productRepo = repo
	}
}

// WithPublisher sets the event fan-out publisher for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(publisher eventPublisher) option {
	return func(s *ProductService) {
		s.publisher = publisher
	}
}

// CreateProduct adds a product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	inserted, err := s.productRepo.Insert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	s.publishChange(ctx, inserted, orderevent.TypeProductCreated)

	return inserted, nil
}

// UpdateProduct replaces the mutable fields of a product.
func (s *ProductService) UpdateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	p.UpdatedAt = time.Now()

	updated, err := s.productRepo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, updated, orderevent.TypeProductUpdated)

	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishChange(ctx, &product.Product{ID: id}, orderevent.TypeProductDeleted)

	return nil
}

// GetProducts retrieves products based on filter criteria.
func (s *ProductService) GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error) {
	products, err := s.productRepo.Query(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}

func (s *ProductService) publishChange(ctx context.Context, p *product.Product, t orderevent.Type) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(p)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal product", "product_id", p.ID, "error", err)

		return
	}

	s.publisher.Publish(orderevent.OrderEvent{
		Type:      t,
		RequestID: uuid.NewString(),
		Payload:   payload,
		CreatedAt: time.Now(),
	})
}
