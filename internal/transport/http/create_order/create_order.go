package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/payment"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/ordersvc"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, model ordersvc.CreateOrderModel) (*order.Order, error)
}

// shippingInCreateOrderRequest represents shipping options in a create
// order request.
type shippingInCreateOrderRequest struct {
	Type    string `json:"type"`
	Carrier string `json:"carrier"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Email      string                       `json:"email"      validate:"required,email"`
	ProductIds []string                     `json:"productIds" validate:"required,min=1,dive,required"`
	Payment    string                       `json:"payment"    validate:"required"`
	Shipping   shippingInCreateOrderRequest `json:"shipping"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to ordersvc.CreateOrderModel.
func (r *createOrderRequest) toModel() (*ordersvc.CreateOrderModel, error) {
	method, err := payment.ParseMethod(r.Payment)
	if err != nil {
		return nil, err
	}

	return &ordersvc.CreateOrderModel{
		Email:           r.Email,
		ProductCodes:    r.ProductIds,
		Payment:         method,
		ShippingType:    r.Shipping.Type,
		ShippingCarrier: r.Shipping.Carrier,
	}, nil
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	model, err := orderReq.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error converting create order request to model", "error", err)

		return
	}

	createdOrder, err := service.CreateOrder(r.Context(), *model)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(createdOrder); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
