package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/aws"
	"github.com/loopxpress/backend/internal/awstest"
	"github.com/loopxpress/backend/internal/gateway"
	"github.com/loopxpress/backend/internal/orders"
	"github.com/loopxpress/backend/internal/payments"
)

const (
	testGatewaySecret = "test-gateway-secret"
	testJWTSecret     = "test-jwt-secret"
)

// fakeGateway mints deterministic gateway orders and records the amounts
// requested.
type fakeGateway struct {
	amounts []int64
	err     error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*gateway.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.amounts = append(f.amounts, amountMinor)
	return &gateway.Order{
		ID:       fmt.Sprintf("order_fake%d", len(f.amounts)),
		Amount:   amountMinor,
		Currency: currency,
		Status:   "created",
	}, nil
}

type paymentsFixture struct {
	router   *gin.Engine
	db       *awstest.MockDynamo
	gw       *fakeGateway
	sqs      *awstest.MockSQS
	orders   *orders.Store
	payments *payments.Store
}

func newPaymentsFixture(t *testing.T) *paymentsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := awstest.NewMockDynamo()
	db.AddTable("orders", "order_id")
	db.AddTable("payments", "razorpay_payment_id")

	f := &paymentsFixture{
		db:       db,
		gw:       &fakeGateway{},
		sqs:      &awstest.MockSQS{},
		orders:   orders.NewStore(db, "orders"),
		payments: payments.NewStore(db, "payments"),
	}

	f.router = gin.New()
	RegisterPaymentRoutes(f.router, PaymentsConfig{
		Gateway:       f.gw,
		GatewayKeyID:  "rzp_test_key",
		GatewaySecret: testGatewaySecret,
		Orders:        f.orders,
		Payments:      f.payments,
		Events:        aws.NewPublisher(f.sqs, "https://sqs.test/orders"),
		JWTSecret:     testJWTSecret,
	})
	return f
}

func (f *paymentsFixture) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func adminHeader(t *testing.T) map[string]string {
	t.Helper()
	token, err := auth.IssueToken(testJWTSecret, "admin-1", "admin@test.dev", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestCheckoutAmountValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"missing amount", map[string]interface{}{}, "Amount is required"},
		{"zero amount", map[string]interface{}{"amount": 0}, "Amount is required"},
		{"negative amount", map[string]interface{}{"amount": -100}, "Amount is required"},
		{"over ceiling", map[string]interface{}{"amount": 1000001}, "Amount exceeds the maximum allowed value of ₹10,00,000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentsFixture(t)
			w := f.do(t, http.MethodPost, "/api/payment/checkout", tc.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decodeBody(t, w)["message"]; got != tc.message {
				t.Errorf("message = %q, want %q", got, tc.message)
			}
			if len(f.gw.amounts) != 0 {
				t.Errorf("gateway was called for an invalid amount")
			}
		})
	}
}

func TestCheckoutConvertsToMinorUnits(t *testing.T) {
	f := newPaymentsFixture(t)

	w := f.do(t, http.MethodPost, "/api/payment/checkout", map[string]interface{}{"amount": 500000}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(f.gw.amounts) != 1 || f.gw.amounts[0] != 50000000 {
		t.Errorf("gateway amounts = %v, want [50000000]", f.gw.amounts)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	order, ok := body["order"].(map[string]interface{})
	if !ok || order["id"] == "" {
		t.Errorf("order missing from response: %v", body)
	}
}

func TestCheckoutFractionalAmount(t *testing.T) {
	f := newPaymentsFixture(t)

	w := f.do(t, http.MethodPost, "/api/payment/checkout", map[string]interface{}{"amount": 499.99}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if f.gw.amounts[0] != 49999 {
		t.Errorf("minor amount = %d, want 49999", f.gw.amounts[0])
	}
}

func TestCheckoutApprovalGate(t *testing.T) {
	f := newPaymentsFixture(t)
	ctx := context.Background()

	if err := f.orders.Create(ctx, orders.Order{OrderID: "ord-pending", Amount: 1000}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	// unknown order
	w := f.do(t, http.MethodPost, "/api/payment/checkout", map[string]interface{}{"amount": 10, "order_id": "ord-missing"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown order status = %d, want 404", w.Code)
	}

	// pending order
	w = f.do(t, http.MethodPost, "/api/payment/checkout", map[string]interface{}{"amount": 10, "order_id": "ord-pending"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("pending order status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Order is not approved for checkout" {
		t.Errorf("message = %q", got)
	}
	if len(f.gw.amounts) != 0 {
		t.Fatalf("gateway called before approval")
	}

	// approved order checks out and gets the gateway order id written back
	if _, err := f.orders.UpdateApproval(ctx, "ord-pending", orders.ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	w = f.do(t, http.MethodPost, "/api/payment/checkout", map[string]interface{}{"amount": 10, "order_id": "ord-pending"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approved order status = %d, body %s", w.Code, w.Body.String())
	}

	stored, err := f.orders.Get(ctx, "ord-pending")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.GatewayOrderID != "order_fake1" {
		t.Errorf("gateway order id = %q, want order_fake1", stored.GatewayOrderID)
	}
}

func verificationBody(orderID, paymentID string, items []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  gateway.Signature(testGatewaySecret, orderID, paymentID),
		"amount":              250000,
		"currency":            "INR",
		"items":               items,
	}
}

func TestPaymentVerificationPersistsPaymentAndOrders(t *testing.T) {
	f := newPaymentsFixture(t)

	items := []map[string]interface{}{
		{"title": "Shoe", "brand": "Acme", "category": "Footwear", "subcategory": "Sneakers", "discounted_price": 120000},
		{"title": "Sock", "brand": "Acme", "category": "Footwear", "subcategory": "Socks", "discounted_price": 5000},
		{"title": "incomplete", "brand": "Acme"}, // skipped: missing category and subcategory
	}
	w := f.do(t, http.MethodPost, "/api/payment/paymentVerification", verificationBody("order_abc", "pay_abc", items), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Payment verified successfully" {
		t.Errorf("message = %q", body["message"])
	}
	if body["payment_id"] != "pay_abc" || body["order_id"] != "order_abc" {
		t.Errorf("ids = %v / %v", body["payment_id"], body["order_id"])
	}

	if got := f.db.Count("payments"); got != 1 {
		t.Errorf("payments count = %d, want 1", got)
	}
	if got := f.db.Count("orders"); got != 2 {
		t.Errorf("orders count = %d, want 2 (incomplete item skipped)", got)
	}

	placed, err := f.orders.ByGatewayOrderID(context.Background(), "order_abc")
	if err != nil {
		t.Fatalf("query orders: %v", err)
	}
	for _, o := range placed {
		if o.Status != orders.StatusPlaced {
			t.Errorf("order %s status = %q, want %q", o.OrderID, o.Status, orders.StatusPlaced)
		}
		if o.GatewayPaymentID != "pay_abc" {
			t.Errorf("order %s payment id = %q", o.OrderID, o.GatewayPaymentID)
		}
	}

	if len(f.sqs.Sent) != 1 {
		t.Errorf("sqs messages = %d, want 1", len(f.sqs.Sent))
	}
}

func TestPaymentVerificationRejectsTamperedSignature(t *testing.T) {
	f := newPaymentsFixture(t)

	body := verificationBody("order_abc", "pay_abc", []map[string]interface{}{
		{"title": "Shoe", "brand": "Acme", "category": "Footwear", "subcategory": "Sneakers"},
	})
	body["razorpay_signature"] = gateway.Signature(testGatewaySecret, "order_abc", "pay_other")

	w := f.do(t, http.MethodPost, "/api/payment/paymentVerification", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "Payment verification failed" {
		t.Errorf("message = %q", got)
	}
	if f.db.Count("payments") != 0 || f.db.Count("orders") != 0 {
		t.Errorf("writes happened despite signature mismatch: payments=%d orders=%d",
			f.db.Count("payments"), f.db.Count("orders"))
	}
	if len(f.sqs.Sent) != 0 {
		t.Errorf("event published despite signature mismatch")
	}
}

func TestPaymentVerificationRequiredFields(t *testing.T) {
	valid := verificationBody("order_abc", "pay_abc", []map[string]interface{}{
		{"title": "Shoe", "brand": "Acme", "category": "Footwear", "subcategory": "Sneakers"},
	})

	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing order id", func(b map[string]interface{}) { delete(b, "razorpay_order_id") }},
		{"missing payment id", func(b map[string]interface{}) { delete(b, "razorpay_payment_id") }},
		{"missing signature", func(b map[string]interface{}) { delete(b, "razorpay_signature") }},
		{"missing amount", func(b map[string]interface{}) { delete(b, "amount") }},
		{"missing currency", func(b map[string]interface{}) { delete(b, "currency") }},
		{"no items and no order id", func(b map[string]interface{}) { delete(b, "items") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentsFixture(t)
			body := map[string]interface{}{}
			for k, v := range valid {
				body[k] = v
			}
			tc.mutate(body)

			w := f.do(t, http.MethodPost, "/api/payment/paymentVerification", body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decodeBody(t, w)["message"]; got != "Invalid payment data" {
				t.Errorf("message = %q, want Invalid payment data", got)
			}
			if f.db.Count("payments") != 0 {
				t.Errorf("payment written despite invalid payload")
			}
		})
	}
}

func TestPaymentVerificationSingleOrderAttach(t *testing.T) {
	f := newPaymentsFixture(t)
	ctx := context.Background()

	if err := f.orders.Create(ctx, orders.Order{OrderID: "ord-1", Amount: 250000}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	body := verificationBody("order_abc", "pay_abc", nil)
	body["order_id"] = "ord-1"

	w := f.do(t, http.MethodPost, "/api/payment/paymentVerification", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	stored, err := f.orders.Get(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.GatewayOrderID != "order_abc" || stored.GatewayPaymentID != "pay_abc" {
		t.Errorf("order gateway fields = %q / %q", stored.GatewayOrderID, stored.GatewayPaymentID)
	}
	if f.db.Count("orders") != 1 {
		t.Errorf("orders count = %d, want the one pre-existing order", f.db.Count("orders"))
	}

	// unknown order id is a 404, but the payment record stands
	body2 := verificationBody("order_xyz", "pay_xyz", nil)
	body2["order_id"] = "ord-missing"
	w = f.do(t, http.MethodPost, "/api/payment/paymentVerification", body2, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown order status = %d, want 404", w.Code)
	}
}

func TestCreateOrderRequest(t *testing.T) {
	f := newPaymentsFixture(t)

	body := map[string]interface{}{
		"amount":  45000,
		"address": "42 MG Road, Bengaluru",
		"items": []map[string]interface{}{
			{"title": "Lamp", "brand": "Glow", "category": "Home", "subcategory": "Lighting", "discounted_price": 45000},
		},
	}
	w := f.do(t, http.MethodPost, "/api/payment/createOrderRequest", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	items := f.db.Items("orders")
	if len(items) != 1 {
		t.Fatalf("orders count = %d, want 1", len(items))
	}

	created, err := f.orders.List(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if created[0].ApprovalStatus != orders.ApprovalPending {
		t.Errorf("approval = %q, want %q", created[0].ApprovalStatus, orders.ApprovalPending)
	}
	if created[0].GatewayOrderID != "" {
		t.Errorf("pre-authorization order carries a gateway order id")
	}
}

func TestApproveRejectOrder(t *testing.T) {
	f := newPaymentsFixture(t)
	ctx := context.Background()
	hdr := adminHeader(t)

	if err := f.orders.Create(ctx, orders.Order{OrderID: "ord-1", Amount: 1000}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	w := f.do(t, http.MethodPut, "/api/payment/approveOrder/ord-1", nil, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", w.Code, w.Body.String())
	}
	stored, _ := f.orders.Get(ctx, "ord-1")
	if stored.ApprovalStatus != orders.ApprovalApproved {
		t.Errorf("approval = %q, want %q", stored.ApprovalStatus, orders.ApprovalApproved)
	}

	// approving again is idempotent
	w = f.do(t, http.MethodPut, "/api/payment/approveOrder/ord-1", nil, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("re-approve status = %d", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/payment/rejectOrder/ord-1", nil, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("reject status = %d", w.Code)
	}
	stored, _ = f.orders.Get(ctx, "ord-1")
	if stored.ApprovalStatus != orders.ApprovalRejected {
		t.Errorf("approval = %q, want %q", stored.ApprovalStatus, orders.ApprovalRejected)
	}

	w = f.do(t, http.MethodPut, "/api/payment/approveOrder/ord-missing", nil, hdr)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing order status = %d, want 404", w.Code)
	}
}

func TestApproveOrderRequiresAdmin(t *testing.T) {
	f := newPaymentsFixture(t)

	w := f.do(t, http.MethodPut, "/api/payment/approveOrder/ord-1", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", w.Code)
	}

	token, err := auth.IssueToken(testJWTSecret, "seller-1", "seller@test.dev", auth.RoleSeller)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	w = f.do(t, http.MethodPut, "/api/payment/approveOrder/ord-1", nil, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusForbidden {
		t.Fatalf("seller token status = %d, want 403", w.Code)
	}
}

func TestGetKey(t *testing.T) {
	f := newPaymentsFixture(t)

	w := f.do(t, http.MethodGet, "/api/getkey", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w)["key"]; got != "rzp_test_key" {
		t.Errorf("key = %q", got)
	}
}
