package order

// QueryOrdersModel represents filter parameters for querying orders
type QueryOrdersModel struct {
	CustomerEmail string `json:"email,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}
