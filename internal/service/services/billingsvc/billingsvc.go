package billingsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/orderevent"
)

// BillingService charges newly created orders. It subscribes to
// ORDER_CREATED events only; the payment collaborator behind it is
// external, so processing here settles the charge request and records the
// outcome.
type BillingService struct {
	charger Charger
}

// Charger submits one charge to the payment collaborator.
type Charger interface {
	Charge(ctx context.Context, email, orderID string, amountCents int64, method string) error
}

// option is a function that configures the BillingService.
type option func(*BillingService)

// MustNewBillingService creates a new BillingService.
func MustNewBillingService(opts ...option) *BillingService {
	s := &BillingService{
		charger: &logCharger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithCharger sets the payment collaborator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCharger(charger Charger) option {
	return func(s *BillingService) {
		s.charger = charger
	}
}

// ProcessOrderCreated handles one ORDER_CREATED event. It is the billing
// subscriber handler: idempotent on redelivery because the charge is keyed
// by order id downstream.
func (s *BillingService) ProcessOrderCreated(ctx context.Context, event orderevent.OrderEvent) error {
	snapshot, err := orderevent.UnmarshalSnapshot(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to decode order snapshot: %w", err)
	}

	if err := s.charger.Charge(
		ctx,
		snapshot.Email,
		snapshot.OrderID,
		snapshot.TotalPriceCents,
		snapshot.Payment,
	); err != nil {
		return fmt.Errorf("failed to charge order %s: %w", snapshot.OrderID, err)
	}

	return nil
}

// logCharger is the default collaborator used until a real payment gateway
// is wired in.
type logCharger struct{}

func (c *logCharger) Charge(ctx context.Context, email, orderID string, amountCents int64, method string) error {
	slog.InfoContext(ctx, "Order charged",
		"email", email,
		"order_id", orderID,
		"amount_cents", amountCents,
		"payment_method", method,
	)

	return nil
}
