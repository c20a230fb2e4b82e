package orderevent

import (
	"encoding/json"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
)

// Snapshot is the serialized order state carried in an event payload.
type Snapshot struct {
	Email           string   `json:"email"`
	OrderID         string   `json:"orderId"`
	ShippingType    string   `json:"shippingType"`
	ShippingCarrier string   `json:"carrier"`
	Payment         string   `json:"payment"`
	TotalPriceCents int64    `json:"totalPriceCents"`
	ProductCodes    []string `json:"productCodes"`
}

// SnapshotFromOrder captures the order state for an event payload.
func SnapshotFromOrder(o *order.Order) Snapshot {
	return Snapshot{
		Email:           o.CustomerEmail,
		OrderID:         o.ID,
		ShippingType:    o.ShippingType,
		ShippingCarrier: o.ShippingCarrier,
		Payment:         o.Payment.String(),
		TotalPriceCents: o.TotalPriceCents,
		ProductCodes:    o.ProductCodes,
	}
}

// Marshal serializes the snapshot for storage in an event payload.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot parses an event payload back into a snapshot. Queries
// tolerate payloads written by older producers, so unknown fields are
// ignored.
func UnmarshalSnapshot(payload []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(payload, &s)

	return s, err
}
