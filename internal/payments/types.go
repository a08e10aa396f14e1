package payments

import "time"

// Payment statuses. A record only exists after signature verification,
// so Success is the default.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Payment is the immutable record of a verified gateway payment.
// Amount is in integer minor units (paise).
type Payment struct {
	GatewayPaymentID string    `json:"razorpay_payment_id" dynamodbav:"razorpay_payment_id"` // PK
	GatewayOrderID   string    `json:"razorpay_order_id" dynamodbav:"razorpay_order_id"`
	GatewaySignature string    `json:"razorpay_signature" dynamodbav:"razorpay_signature"`
	Amount           int64     `json:"amount" dynamodbav:"amount"`
	Currency         string    `json:"currency" dynamodbav:"currency"`
	Status           string    `json:"status" dynamodbav:"status"`
	CreatedAt        time.Time `json:"created_at" dynamodbav:"created_at"`
}
