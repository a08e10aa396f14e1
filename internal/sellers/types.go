package sellers

import "time"

// PersonalDetails is the seller's contact block. PasswordHash never leaves
// the store layer in API responses.
type PersonalDetails struct {
	FullName     string `json:"full_name" dynamodbav:"full_name"`
	Email        string `json:"email" dynamodbav:"email"`
	PhoneNumber  string `json:"phone_number" dynamodbav:"phone_number"`
	Address      string `json:"address" dynamodbav:"address"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	ProfilePic   string `json:"profile_pic,omitempty" dynamodbav:"profile_pic,omitempty"`
}

type BusinessDetails struct {
	BusinessName      string `json:"business_name" dynamodbav:"business_name"`
	BusinessType      string `json:"business_type" dynamodbav:"business_type"`
	BrandName         string `json:"brand_name" dynamodbav:"brand_name"`
	BusinessPhone     string `json:"business_phone" dynamodbav:"business_phone"`
	BusinessEmail     string `json:"business_email" dynamodbav:"business_email"`
	GSTNumber         string `json:"gst_number" dynamodbav:"gst_number"`
	OtherBusinessType string `json:"other_business_type,omitempty" dynamodbav:"other_business_type,omitempty"`
}

type BankDetails struct {
	AccountNumber string `json:"account_number" dynamodbav:"account_number"`
	BankName      string `json:"bank_name" dynamodbav:"bank_name"`
	IFSCCode      string `json:"ifsc_code" dynamodbav:"ifsc_code"`
}

// Seller is a registered merchant. Email and GST number are queryable via GSIs;
// the reset token fields back the forgot-password flow.
type Seller struct {
	SellerID         string          `json:"seller_id" dynamodbav:"seller_id"` // PK
	Email            string          `json:"email" dynamodbav:"email"`         // GSI key, duplicated from PersonalDetails
	GSTNumber        string          `json:"gst_number" dynamodbav:"gst_number"`
	PersonalDetails  PersonalDetails `json:"personal_details" dynamodbav:"personal_details"`
	BusinessDetails  BusinessDetails `json:"business_details" dynamodbav:"business_details"`
	BankDetails      BankDetails     `json:"bank_details" dynamodbav:"bank_details"`
	ResetToken       string          `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetTokenExpiry time.Time       `json:"-" dynamodbav:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time       `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" dynamodbav:"updated_at"`
}

// Admin is a platform operator account, stored in its own table.
type Admin struct {
	AdminID      string    `json:"admin_id" dynamodbav:"admin_id"` // PK
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"` // GSI key
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}
