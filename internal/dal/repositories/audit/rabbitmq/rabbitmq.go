package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/dal/interfaces/ioutboxrepo"
	"github.com/siecolabs/ecommerce-orders/internal/dal/rabbitmq"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/audit"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/outbox"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// AuditRabbitMQRepository publishes anomaly events to the audit bus
// exchange. Publishes that fail are parked in the outbox so the outbox
// worker can retry them; the caller never sees the failure.
type AuditRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	exchange   string
	maxRetries int
}

// NewAuditRabbitMQRepository creates a new audit bus publisher.
func NewAuditRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *AuditRabbitMQRepository {
	exchange := viper.GetString("rabbitmq.audit.exchange")
	if exchange == "" {
		exchange = "audit.bus"
	}

	maxRetries := viper.GetInt("rabbitmq.audit.max_retries")
	if maxRetries == 0 {
		maxRetries = 3
	}

	if err := client.DeclareExchange(rabbitmq.DeclareExchangeConfig{
		Name:    exchange,
		Kind:    "topic",
		Durable: true,
	}); err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		exchange:   exchange,
		maxRetries: maxRetries,
	}
}

// Publish sends an anomaly event to the audit bus, routing by its source
// and detail type so bus rules can match reason classes independently.
func (r *AuditRabbitMQRepository) Publish(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	routingKey := event.Source + "." + event.DetailType

	err = r.client.Channel().Publish(
		r.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err == nil {
		return nil
	}

	slog.Warn("Audit bus publish failed, parking in outbox",
		"exchange", r.exchange,
		"routing_key", routingKey,
		"error", err,
	)

	now := time.Now()
	if outboxErr := r.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		ExchangeName: r.exchange,
		RoutingKey:   routingKey,
		Payload:      body,
		ContentType:  "application/json",
		MaxRetries:   r.maxRetries,
		LastError:    err.Error(),
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}); outboxErr != nil {
		return fmt.Errorf("failed to park audit event in outbox: %w", outboxErr)
	}

	return nil
}
