package order

import (
	"errors"
	"time"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/payment"
)

var (
	// ErrNotFound is returned when no order matches (email, orderId).
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned on a lifecycle transition that is
	// not part of NONE -> CREATED -> DELETED.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Order represents a customer order. Orders are keyed by (CustomerEmail,
// ID); the id is unique within a customer's partition.
type Order struct {
	CustomerEmail   string         `json:"email"`
	ID              string         `json:"orderId"`
	ShippingType    string         `json:"shippingType"`
	ShippingCarrier string         `json:"carrier"`
	Payment         payment.Method `json:"payment"`
	TotalPriceCents int64          `json:"totalPriceCents"`
	ProductCodes    []string       `json:"productCodes"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
