package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned when the notification buffer cannot absorb a
// burst; the publisher will retry and eventually dead-letter the delivery.
var ErrQueueFull = errors.New("email notification queue is full")

// Mailer sends one order confirmation to the mail collaborator.
type Mailer interface {
	SendOrderEmail(ctx context.Context, email, orderID string) error
}

// Worker decouples email notification from order creation: the subscriber
// handler enqueues into a buffered channel and a background loop drains it
// in bounded batches, so a burst of orders never overwhelms the mail
// collaborator or backpressures order creation.
type Worker struct {
	mailer        Mailer
	queue         chan orderevent.OrderEvent
	batchSize     int
	flushInterval time.Duration
	sendLimit     int
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewWorker creates a new email notification worker.
func NewWorker(mailer Mailer) *Worker {
	queueSize := viper.GetInt("email.queue_size")
	if queueSize == 0 {
		queueSize = 256
	}

	batchSize := viper.GetInt("email.batch_size")
	if batchSize == 0 {
		batchSize = 10
	}

	flushIntervalSeconds := viper.GetInt("email.flush_interval_seconds")
	if flushIntervalSeconds == 0 {
		flushIntervalSeconds = 5
	}

	sendLimit := viper.GetInt("email.send_limit")
	if sendLimit == 0 {
		sendLimit = 5
	}

	if mailer == nil {
		mailer = &logMailer{}
	}

	return &Worker{
		mailer:        mailer,
		queue:         make(chan orderevent.OrderEvent, queueSize),
		batchSize:     batchSize,
		flushInterval: time.Duration(flushIntervalSeconds) * time.Second,
		sendLimit:     sendLimit,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Enqueue is the subscriber handler: it buffers the event for batched
// delivery and returns immediately.
func (w *Worker) Enqueue(_ context.Context, event orderevent.OrderEvent) error {
	select {
	case w.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start drains the queue until the context is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	slog.Info("Email worker started",
		"batch_size", w.batchSize,
		"flush_interval", w.flushInterval,
	)

	batch := make([]orderevent.OrderEvent, 0, w.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.sendBatch(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			slog.Info("Email worker shutting down")

			return
		case <-w.stopCh:
			flush()
			slog.Info("Email worker stopped")

			return
		case event := <-w.queue:
			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Stop stops the worker and waits for the final flush.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Worker) sendBatch(ctx context.Context, batch []orderevent.OrderEvent) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.sendLimit)

	for _, event := range batch {
		event := event
		g.Go(func() error {
			if err := w.mailer.SendOrderEmail(gctx, event.Email, event.OrderID); err != nil {
				slog.ErrorContext(gctx, "Failed to send order email",
					"email", event.Email,
					"order_id", event.OrderID,
					"error", err,
				)
			}

			// Mail failures stay local to one notification.
			return nil
		})
	}

	_ = g.Wait()
}

// logMailer is the default collaborator used until a real mail gateway is
// wired in.
type logMailer struct{}

func (m *logMailer) SendOrderEmail(ctx context.Context, email, orderID string) error {
	slog.InfoContext(ctx, "Order confirmation email sent",
		"email", email,
		"order_id", orderID,
	)

	return nil
}
