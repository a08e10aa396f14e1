package validation

import "time"

// LineItem is one cart entry submitted with payment verification or an order
// request. Orders are only materialized for items with all four descriptive
// fields present; the dive validation enforces that up front for order
// requests, while payment verification filters item-by-item.
type LineItem struct {
	Title           string `json:"title"`
	Brand           string `json:"brand"`
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory"`
	DiscountedPrice int64  `json:"discounted_price,omitempty"`
}

// Complete reports whether the item carries every required descriptive field.
func (it LineItem) Complete() bool {
	return it.Title != "" && it.Brand != "" && it.Category != "" && it.Subcategory != ""
}

// CheckoutRequest is the payload for POST /api/payment/checkout.
// Amount is in major currency units; OrderID gates checkout on approval
// when present. Limits are checked in the handler to preserve the exact
// client-facing messages.
type CheckoutRequest struct {
	Amount  float64 `json:"amount"`
	OrderID string  `json:"order_id,omitempty"`
}

// VerificationRequest is the payload for POST /api/payment/paymentVerification.
// Amount is in integer minor units, as confirmed by the gateway callback.
// Exactly one of Items / OrderID drives order materialization.
type VerificationRequest struct {
	GatewayOrderID   string     `json:"razorpay_order_id"`
	GatewayPaymentID string     `json:"razorpay_payment_id"`
	GatewaySignature string     `json:"razorpay_signature"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Items            []LineItem `json:"items,omitempty"`
	OrderID          string     `json:"order_id,omitempty"`
}

// OrderRequest is the payload for POST /api/payment/createOrderRequest:
// a pre-authorization placeholder awaiting admin approval.
type OrderRequest struct {
	Amount  int64             `json:"amount" validate:"required,gt=0"`
	Items   []OrderRequestItem `json:"items" validate:"required,min=1,dive"`
	Address string            `json:"address" validate:"required"`
}

// OrderRequestItem requires the full descriptive set, unlike verification items.
type OrderRequestItem struct {
	Title           string `json:"title" validate:"required"`
	Brand           string `json:"brand" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Subcategory     string `json:"subcategory" validate:"required"`
	DiscountedPrice int64  `json:"discounted_price,omitempty" validate:"omitempty,gt=0"`
}

// StatusUpdateRequest is the payload for PUT /api/orders/update/:orderId.
// Membership in the delivery status enum is checked in the handler so the 400
// can list the allowed values.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// SellerSignupRequest is the payload for POST /api/users/submit-form.
type SellerSignupRequest struct {
	PersonalDetails struct {
		FullName    string `json:"full_name" validate:"required"`
		Email       string `json:"email" validate:"required,email"`
		PhoneNumber string `json:"phone_number" validate:"required"`
		Address     string `json:"address" validate:"required"`
		Password    string `json:"password" validate:"required,min=8"`
	} `json:"personal_details" validate:"required"`
	BusinessDetails struct {
		BusinessName      string `json:"business_name" validate:"required"`
		BusinessType      string `json:"business_type" validate:"required"`
		BrandName         string `json:"brand_name" validate:"required"`
		BusinessPhone     string `json:"business_phone" validate:"required"`
		BusinessEmail     string `json:"business_email" validate:"required,email"`
		GSTNumber         string `json:"gst_number" validate:"required"`
		OtherBusinessType string `json:"other_business_type"`
	} `json:"business_details" validate:"required"`
	BankDetails struct {
		AccountNumber string `json:"account_number" validate:"required"`
		BankName      string `json:"bank_name" validate:"required"`
		IFSCCode      string `json:"ifsc_code" validate:"required"`
	} `json:"bank_details" validate:"required"`
}

// SigninRequest serves seller, admin and consumer logins.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ConsumerSignupRequest is the payload for POST /api/consumers/signup.
type ConsumerSignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminSignupRequest is the payload for POST /api/admin/signup.
type AdminSignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CartItemRequest is the payload for POST /api/consumers/cart.
type CartItemRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	ImageURL    string `json:"image_url" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Subcategory string `json:"subcategory"`
	Price       int64  `json:"price" validate:"required,gt=0"`
}

// ProductRequest is the multipart form payload for product create/update.
// Image files travel separately; prices are in integer minor units.
type ProductRequest struct {
	Title             string    `json:"title" validate:"required,max=100"`
	Brand             string    `json:"brand" validate:"required"`
	Colors            []string  `json:"colors" validate:"required,min=1"`
	OriginalPrice     int64     `json:"original_price" validate:"required,gt=0"`
	DiscountedPrice   int64     `json:"discounted_price" validate:"required,gt=0"`
	Category          string    `json:"category" validate:"required"`
	Subcategory       string    `json:"subcategory" validate:"required"`
	Quantity          int       `json:"quantity" validate:"min=0"`
	Weight            string    `json:"weight" validate:"required"`
	Description       string    `json:"description" validate:"required,min=10,max=1000"`
	Highlights        []string  `json:"highlights" validate:"max=10"`
	StockAlert        int       `json:"stock_alert" validate:"min=0"`
	ManufacturingDate time.Time `json:"manufacturing_date" validate:"required"`
	Warranty          string    `json:"warranty" validate:"required"`
	ShippingInfo      string    `json:"shipping_info" validate:"required"`
}

// InventoryRequest is the payload for POST /api/inventory/add-product-inventory.
type InventoryRequest struct {
	ProductID         string `json:"product_id" validate:"required"`
	LocationWiseStock []struct {
		LocationName string `json:"location_name" validate:"required"`
		Stock        int    `json:"stock" validate:"min=0"`
	} `json:"location_wise_stock" validate:"required,min=1,dive"`
}

// GSTRequest is the payload for the GST endpoints.
type GSTRequest struct {
	GSTIN string `json:"gstin" validate:"required,len=15"`
}

// PersonalInfoUpdateRequest is the payload for PUT /api/users/update-personal-info.
type PersonalInfoUpdateRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
}

// PasswordUpdateRequest is the payload for PUT /api/users/update-password.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
