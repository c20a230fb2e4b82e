package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/dal/postgres"
	"github.com/siecolabs/ecommerce-orders/internal/dal/rabbitmq"
	auditrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/audit/rabbitmq"
	deadletterrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/deadletter/rabbitmq"
	orderrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/order/postgres"
	eventlogrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/orderevent/postgres"
	outboxrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/siecolabs/ecommerce-orders/internal/dal/repositories/product/postgres"
	"github.com/siecolabs/ecommerce-orders/internal/otel"
	"github.com/siecolabs/ecommerce-orders/internal/publisher"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/audit"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/billingsvc"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/eventsvc"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/ordersvc"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/productsvc"
	httptransport "github.com/siecolabs/ecommerce-orders/internal/transport/http"
	emailworker "github.com/siecolabs/ecommerce-orders/internal/worker/email"
	outboxworker "github.com/siecolabs/ecommerce-orders/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	eventPublisher *publisher.Publisher
	emailWorker    *emailworker.Worker
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	productRepo := productrepo.NewProductRepository(postgresClient)
	orderRepo := orderrepo.NewOrderRepository(postgresClient)
	eventLogRepo := eventlogrepo.NewEventLogRepository(postgresClient)
	outboxRepo := outboxrepo.NewOutboxRepository(postgresClient)
	auditRepo := auditrepo.NewAuditRabbitMQRepository(rabbitClient, outboxRepo)
	deadLetterRepo := deadletterrepo.NewDeadLetterRabbitMQRepository(rabbitClient)

	eventPublisher := publisher.NewPublisher(deadLetterRepo)
	emailWorker := emailworker.NewWorker(nil)
	billingSvc := billingsvc.MustNewBillingService()

	// Fan-out subscribers: the event-log writer sees every order lifecycle
	// event, billing and email only new orders, and the audit mirror feeds
	// the anomaly-detection bus.
	eventPublisher.Subscribe(publisher.Subscription{
		Name:   "event-log",
		Filter: func(t orderevent.Type) bool { return t.IsOrderEvent() },
		Handler: func(ctx context.Context, event orderevent.OrderEvent) error {
			return eventLogRepo.Append(ctx, event)
		},
	})
	eventPublisher.Subscribe(publisher.Subscription{
		Name:    "billing",
		Filter:  func(t orderevent.Type) bool { return t == orderevent.TypeOrderCreated },
		Handler: billingSvc.ProcessOrderCreated,
	})
	eventPublisher.Subscribe(publisher.Subscription{
		Name:    "email",
		Filter:  func(t orderevent.Type) bool { return t == orderevent.TypeOrderCreated },
		Handler: emailWorker.Enqueue,
	})
	eventPublisher.Subscribe(publisher.Subscription{
		Name:   "audit-mirror",
		Filter: func(t orderevent.Type) bool { return t.IsOrderEvent() },
		Handler: func(ctx context.Context, event orderevent.OrderEvent) error {
			detail, err := json.Marshal(event)
			if err != nil {
				return err
			}

			return auditRepo.Publish(ctx, audit.Event{
				Source:     audit.SourceOrder,
				DetailType: audit.DetailTypeOrder,
				Reason:     event.Type.String(),
				Detail:     detail,
				CreatedAt:  event.CreatedAt,
			})
		},
	})

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepo),
		ordersvc.WithProductRepository(productRepo),
		ordersvc.WithAuditRepository(auditRepo),
		ordersvc.WithPublisher(eventPublisher),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(productRepo),
		productsvc.WithPublisher(eventPublisher),
	)
	eventsSvc := eventsvc.MustNewEventsQueryService(
		eventsvc.WithEventLogRepository(eventLogRepo),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, eventsSvc, productSvc)
	transport.RegisterRoutes()

	return &App{
		transport:      transport,
		eventPublisher: eventPublisher,
		emailWorker:    emailWorker,
		outboxWorker:   outboxworker.NewWorker(outboxRepo, rabbitClient),
		otelController: otelController,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	go a.emailWorker.Start(workerCtx)
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	// Let in-flight fan-outs settle before tearing workers down.
	a.eventPublisher.Wait()
	cancelWorkers()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracing shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
