package products

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
)

// service is an interface for the service layer.
type service interface {
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

// productRequest represents a create or update product request.
type productRequest struct {
	Name       string `json:"name"       validate:"required"`
	Code       string `json:"code"       validate:"required"`
	Model      string `json:"model"`
	URL        string `json:"url"`
	PriceCents int64  `json:"priceCents" validate:"gte=0"`
}

// Validate validates the product request.
func (r *productRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *productRequest) toModel() product.Product {
	return product.Product{
		Name:       r.Name,
		Code:       r.Code,
		Model:      r.Model,
		URL:        r.URL,
		PriceCents: r.PriceCents,
	}
}

type queryProductsRequest struct {
	Ids   []string `schema:"ids,omitempty"`
	Codes []string `schema:"codes,omitempty"`
	Limit int      `schema:"limit,omitempty"`
}

// ListProducts handles the product listing request.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryProductsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	products, err := service.GetProducts(r.Context(), product.QueryProductsModel{
		Ids:   query.Ids,
		Codes: query.Codes,
		Limit: query.Limit,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting products", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(products); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}

// CreateProduct handles the create product request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := productRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create product", "error", err)

		return
	}

	created, err := service.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating product", "error", err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create product", "error", err)
	}
}

// UpdateProduct handles the update product request.
func UpdateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := productRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for update product", "error", err)

		return
	}

	model := req.toModel()
	model.ID = chi.URLParam(r, "id")

	updated, err := service.UpdateProduct(r.Context(), model)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error updating product", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for update product", "error", err)
	}
}

// DeleteProduct handles the delete product request.
func DeleteProduct(w http.ResponseWriter, r *http.Request, service service) {
	id := chi.URLParam(r, "id")

	if err := service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error deleting product", "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
