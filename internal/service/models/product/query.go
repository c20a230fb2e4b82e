package product

// QueryProductsModel represents filter parameters for querying products
type QueryProductsModel struct {
	Ids   []string `json:"ids,omitempty"`
	Codes []string `json:"codes,omitempty"`
	Limit int      `json:"limit,omitempty"`
}
