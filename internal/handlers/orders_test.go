package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/loopxpress/backend/internal/awstest"
	"github.com/loopxpress/backend/internal/orders"
)

type ordersFixture struct {
	*paymentsFixture
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &ordersFixture{paymentsFixture: &paymentsFixture{}}
	f.db = awstest.NewMockDynamo()
	f.db.AddTable("orders", "order_id")
	f.orders = orders.NewStore(f.db, "orders")

	f.router = gin.New()
	RegisterOrderRoutes(f.router, OrdersConfig{Orders: f.orders})
	return f
}

func (f *ordersFixture) seed(t *testing.T, orderID, gatewayOrderID string) {
	t.Helper()
	ctx := context.Background()
	if err := f.orders.Create(ctx, orders.Order{OrderID: orderID, Amount: 1000}); err != nil {
		t.Fatalf("seed order %s: %v", orderID, err)
	}
	if gatewayOrderID != "" {
		if err := f.orders.SetGatewayOrderID(ctx, orderID, gatewayOrderID); err != nil {
			t.Fatalf("set gateway order id: %v", err)
		}
	}
}

func TestTrackReturnsAllOrdersForGatewayOrder(t *testing.T) {
	f := newOrdersFixture(t)
	f.seed(t, "ord-1", "order_shared")
	f.seed(t, "ord-2", "order_shared")
	f.seed(t, "ord-3", "order_other")

	w := f.do(t, http.MethodGet, "/api/orders/track/order_shared", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	list, ok := body["orders"].([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("orders = %v, want 2 entries", body["orders"])
	}
	if strings.Contains(w.Body.String(), "razorpay_signature") {
		t.Errorf("tracking response leaks the gateway signature")
	}
}

func TestTrackUnknownGatewayOrder(t *testing.T) {
	f := newOrdersFixture(t)

	w := f.do(t, http.MethodGet, "/api/orders/track/order_nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Order not found" {
		t.Errorf("message = %q", got)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newOrdersFixture(t)
	f.seed(t, "ord-1", "order_shared")

	w := f.do(t, http.MethodPut, "/api/orders/update/order_shared", map[string]interface{}{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Status is required" {
		t.Errorf("message = %q", got)
	}

	w = f.do(t, http.MethodPut, "/api/orders/update/order_shared", map[string]interface{}{"status": "Teleported"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d, want 400", w.Code)
	}
	msg, _ := decodeBody(t, w)["message"].(string)
	if !strings.HasPrefix(msg, "Invalid status. Allowed values are: ") {
		t.Errorf("message = %q", msg)
	}
	for _, allowed := range orders.AllowedStatuses {
		if !strings.Contains(msg, allowed) {
			t.Errorf("message %q missing allowed value %q", msg, allowed)
		}
	}

	// the rejected update must not have touched the stored order
	stored, err := f.orders.Get(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != orders.StatusPlaced {
		t.Errorf("status = %q, want untouched %q", stored.Status, orders.StatusPlaced)
	}
}

func TestUpdateStatusFansOutToAllOrders(t *testing.T) {
	f := newOrdersFixture(t)
	f.seed(t, "ord-1", "order_shared")
	f.seed(t, "ord-2", "order_shared")
	f.seed(t, "ord-3", "order_other")

	w := f.do(t, http.MethodPut, "/api/orders/update/order_shared", map[string]interface{}{"status": orders.StatusTransit}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["updated"] != float64(2) {
		t.Errorf("updated = %v, want 2", body["updated"])
	}

	ctx := context.Background()
	for _, id := range []string{"ord-1", "ord-2"} {
		o, _ := f.orders.Get(ctx, id)
		if o.Status != orders.StatusTransit {
			t.Errorf("%s status = %q, want %q", id, o.Status, orders.StatusTransit)
		}
	}
	other, _ := f.orders.Get(ctx, "ord-3")
	if other.Status != orders.StatusPlaced {
		t.Errorf("unrelated order was updated: %q", other.Status)
	}
}

func TestUpdateStatusUnknownGatewayOrder(t *testing.T) {
	f := newOrdersFixture(t)

	w := f.do(t, http.MethodPut, "/api/orders/update/order_nope", map[string]interface{}{"status": orders.StatusDelivered}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListOrders(t *testing.T) {
	f := newOrdersFixture(t)

	w := f.do(t, http.MethodGet, "/api/orders/", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty list status = %d, want 404", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "No orders found" {
		t.Errorf("message = %q", got)
	}

	f.seed(t, "ord-1", "")
	f.seed(t, "ord-2", "")

	w = f.do(t, http.MethodGet, "/api/orders/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	list, _ := decodeBody(t, w)["orders"].([]interface{})
	if len(list) != 2 {
		t.Errorf("orders = %d, want 2", len(list))
	}
}
