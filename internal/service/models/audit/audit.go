package audit

import (
	"encoding/json"
	"time"
)

// Sources and reasons mirror the rules of the anomaly-detection bus.
const (
	SourceOrder   = "app.order"
	SourceInvoice = "app.invoice"

	DetailTypeOrder   = "order"
	DetailTypeInvoice = "invoice"

	ReasonProductNotFound = "PRODUCT_NOT_FOUND"
	ReasonInvoiceTimeout  = "TIMEOUT"
)

// Event is an anomaly notification published to the audit bus, decoupled
// from the normal order-event fan-out.
type Event struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detailType"`
	Reason     string          `json:"reason"`
	Detail     json.RawMessage `json:"detail"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewProductNotFound builds the anomaly event emitted when an order
// references an unknown product code.
func NewProductNotFound(email string, productCodes []string) Event {
	detail, _ := json.Marshal(map[string]any{
		"email":        email,
		"productCodes": productCodes,
	})

	return Event{
		Source:     SourceOrder,
		DetailType: DetailTypeOrder,
		Reason:     ReasonProductNotFound,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
}
