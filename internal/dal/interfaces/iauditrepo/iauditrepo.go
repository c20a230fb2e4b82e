package iauditrepo

import (
	"context"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/audit"
)

// IAuditRepository is interface for the anomaly-detection bus publisher.
type IAuditRepository interface {
	Publish(ctx context.Context, event audit.Event) error
}
