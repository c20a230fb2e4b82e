package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/siecolabs/ecommerce-orders/internal/dal/rabbitmq"
	"github.com/siecolabs/ecommerce-orders/internal/publisher"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// DeadLetterRabbitMQRepository is the terminal queue for deliveries that
// exceeded their retry budget.
type DeadLetterRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

// NewDeadLetterRabbitMQRepository creates the dead-letter queue publisher.
func NewDeadLetterRabbitMQRepository(client *rabbitmq.Client) *DeadLetterRabbitMQRepository {
	queueName := viper.GetString("rabbitmq.dead_letter.queue")
	if queueName == "" {
		queueName = "order-events-dlq"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return &DeadLetterRabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// DeadLetter publishes the failed delivery to the dead-letter queue.
func (r *DeadLetterRabbitMQRepository) DeadLetter(ctx context.Context, d publisher.DeadLetter) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	err = r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish dead letter: %w", err)
	}

	return nil
}
