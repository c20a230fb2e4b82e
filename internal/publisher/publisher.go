package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// defaultMaxAttempts is the per-subscriber retry budget before a delivery
// is routed to the dead-letter sink.
const defaultMaxAttempts = 3

// Handler processes one delivered event. Delivery is at-least-once, so
// handlers must be idempotent.
type Handler func(ctx context.Context, event orderevent.OrderEvent) error

// Subscription binds a filter predicate, a handler and a retry budget.
// Subscribers fail independently: one subscriber exhausting its budget
// never blocks the others.
type Subscription struct {
	Name        string
	Filter      func(t orderevent.Type) bool
	Handler     Handler
	MaxAttempts int
	RetryDelay  time.Duration
}

// DeadLetter describes a delivery that exhausted its retry budget.
type DeadLetter struct {
	Subscriber string
	Event      orderevent.OrderEvent
	Attempts   int
	LastError  string
}

// DeadLetterSink receives deliveries that exhausted their retry budget.
type DeadLetterSink interface {
	DeadLetter(ctx context.Context, d DeadLetter) error
}

// Publisher fans one produced event out to every matching subscriber.
type Publisher struct {
	subscriptions []Subscription
	deadLetter    DeadLetterSink
	deliverLimit  int
	timeout       time.Duration
	wg            sync.WaitGroup
}

// option is a function that configures the Publisher.
type option func(*Publisher)

// NewPublisher creates a new Publisher.
func NewPublisher(deadLetter DeadLetterSink, opts ...option) *Publisher {
	p := &Publisher{
		deadLetter:   deadLetter,
		deliverLimit: 8,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithDeliverLimit bounds how many subscriber deliveries run concurrently.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDeliverLimit(limit int) option {
	return func(p *Publisher) {
		p.deliverLimit = limit
	}
}

// WithTimeout bounds how long one fan-out may take in total.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTimeout(timeout time.Duration) option {
	return func(p *Publisher) {
		p.timeout = timeout
	}
}

// Subscribe registers a subscription. Not safe to call after Publish.
func (p *Publisher) Subscribe(sub Subscription) {
	if sub.MaxAttempts <= 0 {
		sub.MaxAttempts = defaultMaxAttempts
	}
	if sub.Filter == nil {
		sub.Filter = func(orderevent.Type) bool { return true }
	}
	p.subscriptions = append(p.subscriptions, sub)
}

// Publish hands the event to every matching subscriber and returns
// immediately. Delivery failures are retried per subscriber and routed to
// the dead-letter sink once the budget is exhausted; the producer never
// observes them.
func (p *Publisher) Publish(event orderevent.OrderEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		p.deliver(ctx, event)
	}()
}

// Wait blocks until every in-flight fan-out has settled. Used on shutdown
// and in tests.
func (p *Publisher) Wait() {
	p.wg.Wait()
}

func (p *Publisher) deliver(ctx context.Context, event orderevent.OrderEvent) {
	ctx, span := otel.Tracer("publisher").Start(ctx, "Publisher.deliver")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.deliverLimit)

	for _, sub := range p.subscriptions {
		if !sub.Filter(event.Type) {
			continue
		}

		sub := sub
		g.Go(func() error {
			p.deliverTo(gctx, sub, event)

			// Subscriber failures stay local to the subscriber.
			return nil
		})
	}

	_ = g.Wait()
}

func (p *Publisher) deliverTo(ctx context.Context, sub Subscription, event orderevent.OrderEvent) {
	var lastErr error

	for attempt := 1; attempt <= sub.MaxAttempts; attempt++ {
		if lastErr = sub.Handler(ctx, event); lastErr == nil {
			return
		}

		slog.WarnContext(ctx, "Subscriber delivery failed",
			"subscriber", sub.Name,
			"event_type", event.Type.String(),
			"order_id", event.OrderID,
			"attempt", attempt,
			"max_attempts", sub.MaxAttempts,
			"error", lastErr,
		)

		if attempt < sub.MaxAttempts && sub.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(sub.RetryDelay):
			}
		}
	}

	slog.ErrorContext(ctx, "Subscriber retry budget exhausted, dead-lettering",
		"subscriber", sub.Name,
		"event_type", event.Type.String(),
		"order_id", event.OrderID,
	)

	if err := p.deadLetter.DeadLetter(ctx, DeadLetter{
		Subscriber: sub.Name,
		Event:      event,
		Attempts:   sub.MaxAttempts,
		LastError:  lastErr.Error(),
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to dead-letter delivery",
			"subscriber", sub.Name,
			"error", err,
		)
	}
}
