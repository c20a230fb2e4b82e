package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/iauditrepo"
	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/iorderrepo"
	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/iproductrepo"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/audit"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/payment"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
	"github.com/spf13/viper"
)

// ProductNotFoundMarker is the structured log message emitted when an order
// references a missing product. An external alerting collaborator matches
// this literal, so it must stay stable.
const ProductNotFoundMarker = "Some product was not found"

// eventPublisher hands lifecycle events to the fan-out broker.
type eventPublisher interface {
	Publish(event orderevent.OrderEvent)
}

// OrderService orchestrates order creation and deletion against the product
// catalog and produces lifecycle events.
type OrderService struct {
	orderRepo   iorderrepo.IOrderRepository
	productRepo iproductrepo.IProductRepository
	auditRepo   iauditrepo.IAuditRepository
	publisher   eventPublisher
	eventTTL    time.Duration
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	ttlHours := viper.GetInt("events.ttl_hours")
	if ttlHours == 0 {
		ttlHours = 720
	}

	s := &OrderService{
		eventTTL: time.Duration(ttlHours) * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithProductRepository sets the product repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *OrderService) {
		s.productRepo = repo
	}
}

// WithAuditRepository sets the audit bus publisher for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *OrderService) {
		s.auditRepo = repo
	}
}

// WithPublisher sets the event fan-out publisher for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(publisher eventPublisher) option {
	return func(s *OrderService) {
		s.publisher = publisher
	}
}

// WithEventTTL overrides the configured lifecycle-event time-to-live.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventTTL(ttl time.Duration) option {
	return func(s *OrderService) {
		s.eventTTL = ttl
	}
}

// CreateOrderModel carries the validated inputs of a create request.
type CreateOrderModel struct {
	Email           string
	ProductCodes    []string
	Payment         payment.Method
	ShippingType    string
	ShippingCarrier string
}

// CreateOrder validates the referenced products, persists the order and
// emits an ORDER_CREATED event. The event publish is fire-and-forget: the
// caller observes the order outcome regardless of downstream fan-out.
func (s *OrderService) CreateOrder(ctx context.Context, model CreateOrderModel) (*order.Order, error) {
	products, err := s.productRepo.Query(ctx, &product.QueryProductsModel{
		Codes: model.ProductCodes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	priceByCode := make(map[string]int64, len(products))
	for _, p := range products {
		priceByCode[p.Code] = p.PriceCents
	}

	var totalPriceCents int64
	for _, code := range model.ProductCodes {
		price, ok := priceByCode[code]
		if !ok {
			slog.ErrorContext(ctx, ProductNotFoundMarker,
				"email", model.Email,
				"product_code", code,
			)
			s.notifyProductNotFound(ctx, model.Email, model.ProductCodes)

			return nil, fmt.Errorf("product code %q: %w", code, product.ErrNotFound)
		}
		totalPriceCents += price
	}

	now := time.Now()

	status, err := order.StatusNone.Transition(order.StatusCreated)
	if err != nil {
		return nil, err
	}

	o := order.Order{
		CustomerEmail:   model.Email,
		ID:              uuid.NewString(),
		ShippingType:    model.ShippingType,
		ShippingCarrier: model.ShippingCarrier,
		Payment:         model.Payment,
		TotalPriceCents: totalPriceCents,
		ProductCodes:    model.ProductCodes,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	inserted, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publishEvent(ctx, inserted, orderevent.TypeOrderCreated)

	return inserted, nil
}

// DeleteOrder removes the order keyed by (email, orderId) and emits an
// ORDER_DELETED event. Deleting a missing or already-deleted order returns
// order.ErrNotFound.
func (s *OrderService) DeleteOrder(ctx context.Context, email, orderID string) (*order.Order, error) {
	deleted, err := s.orderRepo.Delete(ctx, email, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	deleted.Status, err = deleted.Status.Transition(order.StatusDeleted)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, deleted, orderevent.TypeOrderDeleted)

	return deleted, nil
}

// ListOrders retrieves orders. With no filter it returns all orders, with
// an email it returns that customer's orders, with both email and orderId
// it returns zero or one order.
func (s *OrderService) ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	orders, err := s.orderRepo.Query(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	if orders == nil {
		orders = []order.Order{}
	}

	return orders, nil
}

func (s *OrderService) publishEvent(ctx context.Context, o *order.Order, t orderevent.Type) {
	payload, err := orderevent.SnapshotFromOrder(o).Marshal()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal order snapshot", "order_id", o.ID, "error", err)

		return
	}

	s.publisher.Publish(orderevent.OrderEvent{
		Type:      t,
		Email:     o.CustomerEmail,
		OrderID:   o.ID,
		RequestID: uuid.NewString(),
		Payload:   payload,
		CreatedAt: time.Now(),
		TTL:       s.eventTTL,
	})
}

func (s *OrderService) notifyProductNotFound(ctx context.Context, email string, codes []string) {
	if s.auditRepo == nil {
		return
	}

	if err := s.auditRepo.Publish(ctx, audit.NewProductNotFound(email, codes)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish audit event", "error", err)
	}
}
