package orders

import "time"

// Delivery statuses. Transitions are externally commanded; the update
// endpoint validates membership but does not enforce ordering.
const (
	StatusPlaced         = "Order Placed"
	StatusTransit        = "Order Transit"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// Approval statuses for the request-then-approve checkout variant.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// AllowedStatuses lists the delivery statuses accepted by the update endpoint.
var AllowedStatuses = []string{StatusPlaced, StatusTransit, StatusOutForDelivery, StatusDelivered}

// IsValidStatus reports whether s is a member of the delivery status enum.
func IsValidStatus(s string) bool {
	for _, allowed := range AllowedStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Order is one cart line item materialized as its own document.
// Gateway fields stay empty until a payment has verified against them.
type Order struct {
	OrderID          string    `json:"order_id" dynamodbav:"order_id"` // PK
	GatewayOrderID   string    `json:"razorpay_order_id,omitempty" dynamodbav:"razorpay_order_id,omitempty"`
	GatewayPaymentID string    `json:"razorpay_payment_id,omitempty" dynamodbav:"razorpay_payment_id,omitempty"`
	GatewaySignature string    `json:"razorpay_signature,omitempty" dynamodbav:"razorpay_signature,omitempty"`
	PaymentID        string    `json:"payment_id,omitempty" dynamodbav:"payment_id,omitempty"` // reference into the payments table
	Amount           int64     `json:"amount" dynamodbav:"amount"`
	DiscountedPrice  int64     `json:"discounted_price,omitempty" dynamodbav:"discounted_price,omitempty"`
	Currency         string    `json:"currency" dynamodbav:"currency"`
	Title            string    `json:"title" dynamodbav:"title"`
	Brand            string    `json:"brand" dynamodbav:"brand"`
	Category         string    `json:"category" dynamodbav:"category"`
	Subcategory      string    `json:"subcategory" dynamodbav:"subcategory"`
	Status           string    `json:"status" dynamodbav:"status"`
	ApprovalStatus   string    `json:"approval_status" dynamodbav:"approval_status"`
	Address          string    `json:"address,omitempty" dynamodbav:"address,omitempty"`
	CreatedAt        time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Sanitized returns a copy with the gateway signature stripped, the shape
// served by the tracking and listing endpoints.
func (o Order) Sanitized() Order {
	o.GatewaySignature = ""
	return o
}
