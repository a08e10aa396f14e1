package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the subset of the gateway's order object the backend cares about.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status,omitempty"`
}

// OrderCreator mints order references at the payment gateway.
// Handlers depend on this interface, never on the concrete Razorpay client.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
}

// Client wraps the Razorpay SDK. Construct one in main and inject it into
// the handlers that need it; there is no package-level instance.
type Client struct {
	rz    *razorpay.Client
	keyID string
}

// NewClient builds a gateway client from the API key pair.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		rz:    razorpay.NewClient(keyID, keySecret),
		keyID: keyID,
	}
}

// KeyID returns the public half of the key pair, served to frontends via /api/getkey.
func (c *Client) KeyID() string { return c.keyID }

// CreateOrder asks Razorpay for a new order reference.
// amountMinor is in paise. The SDK is not context-aware; ctx is accepted for
// interface symmetry and future use.
func (c *Client) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
	}
	if receipt != "" {
		data["receipt"] = receipt
	}

	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &Order{
		ID:       stringField(body, "id"),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
		Status:   stringField(body, "status"),
	}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway order response missing id: %v", body)
	}
	return order, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
