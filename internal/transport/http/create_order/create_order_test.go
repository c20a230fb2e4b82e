package createorder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/siecolabs/ecommerce-orders/internal/service/models/order"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/payment"
	"github.com/siecolabs/ecommerce-orders/internal/service/models/product"
	"github.com/siecolabs/ecommerce-orders/internal/service/services/ordersvc"
)

type mockService struct {
	model *ordersvc.CreateOrderModel
	out   *order.Order
	err   error
}

func (m *mockService) CreateOrder(_ context.Context, model ordersvc.CreateOrderModel) (*order.Order, error) {
	m.model = &model

	return m.out, m.err
}

func doRequest(svc service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrder(rec, req, svc)

	return rec
}

func TestCreateOrder_Success(t *testing.T) {
	svc := &mockService{out: &order.Order{
		CustomerEmail:   "alice@example.com",
		ID:              "order-1",
		Payment:         payment.MethodCash,
		TotalPriceCents: 1500,
		Status:          order.StatusCreated,
	}}

	rec := doRequest(svc, `{
		"email": "alice@example.com",
		"productIds": ["P1", "P2"],
		"payment": "CASH",
		"shipping": {"type": "express", "carrier": "dhl"}
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if svc.model == nil {
		t.Fatal("service was not called")
	}
	if svc.model.Email != "alice@example.com" {
		t.Errorf("unexpected email: %s", svc.model.Email)
	}
	if len(svc.model.ProductCodes) != 2 {
		t.Errorf("unexpected product codes: %v", svc.model.ProductCodes)
	}
	if svc.model.Payment != payment.MethodCash {
		t.Errorf("unexpected payment method: %s", svc.model.Payment)
	}
	if svc.model.ShippingType != "express" || svc.model.ShippingCarrier != "dhl" {
		t.Errorf("unexpected shipping: %s / %s", svc.model.ShippingType, svc.model.ShippingCarrier)
	}

	var got order.Order
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "order-1" || got.TotalPriceCents != 1500 {
		t.Errorf("unexpected response body: %+v", got)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing email", `{"productIds": ["P1"], "payment": "CASH"}`},
		{"invalid email", `{"email": "nope", "productIds": ["P1"], "payment": "CASH"}`},
		{"empty products", `{"email": "a@b.c", "productIds": [], "payment": "CASH"}`},
		{"missing payment", `{"email": "a@b.c", "productIds": ["P1"]}`},
		{"unknown payment", `{"email": "a@b.c", "productIds": ["P1"], "payment": "IOU"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := doRequest(svc, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if svc.model != nil {
				t.Error("service must not be called for an invalid request")
			}
		})
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	svc := &mockService{err: fmt.Errorf("product code %q: %w", "MISSING", product.ErrNotFound)}

	rec := doRequest(svc, `{"email": "a@b.c", "productIds": ["MISSING"], "payment": "CASH"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreateOrder_ServiceFailure(t *testing.T) {
	svc := &mockService{err: fmt.Errorf("connection reset")}

	rec := doRequest(svc, `{"email": "a@b.c", "productIds": ["P1"], "payment": "CASH"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
