package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/eventsvc"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/ordersvc"
	createorder "github.com/siecolabs/ecommerce-orders/internal/transport/http/create_order"
	deleteorder "github.com/siecolabs/ecommerce-orders/internal/transport/http/delete_order"
	listorders "github.com/siecolabs/ecommerce-orders/internal/transport/http/list_orders"
	orderevents "github.com/siecolabs/ecommerce-orders/internal/transport/http/order_events"
	"github.com/siecolabs/ecommerce-orders/internal/transport/http/products"
	"github.com/siecolabs/ecommerce-orders/pkg/http/middleware/trace"
	"github.com/siecolabs/ecommerce-orders/pkg/logger"
	"github.com/spf13/viper"
)

type orderService interface {
	CreateOrder(ctx context.Context, model ordersvc.CreateOrderModel) (*order.Order, error)
	DeleteOrder(ctx context.Context, email, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type eventsService interface {
	QueryOrderEvents(ctx context.Context, email string, eventType *orderevent.Type) ([]eventsvc.Projection, error)
}

type productService interface {
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	eventsSvc  eventsService
	productSvc productService
}

func NewHTTPTransport(orderSvc orderService, eventsSvc eventsService, productSvc productService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		eventsSvc:  eventsSvc,
		productSvc: productSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Delete("/", h.deleteOrder)
			r.Get("/events", h.orderEvents)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) orderEvents(w http.ResponseWriter, r *http.Request) {
	orderevents.ListOrderEvents(w, r, h.eventsSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.ListProducts(w, r, h.productSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.CreateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	products.UpdateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	products.DeleteProduct(w, r, h.productSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
