package products

import "time"

// Product is a catalog entry owned by a seller. Prices are in integer minor
// units; DiscountedPrice must not exceed OriginalPrice (validated at bind time).
type Product struct {
	ProductID         string    `json:"product_id" dynamodbav:"product_id"` // PK
	SellerID          string    `json:"seller_id" dynamodbav:"seller_id"`   // GSI key
	Title             string    `json:"title" dynamodbav:"title"`
	Brand             string    `json:"brand" dynamodbav:"brand"`
	Colors            []string  `json:"colors" dynamodbav:"colors"`
	ImageURLs         []string  `json:"image_urls" dynamodbav:"image_urls"`
	OriginalPrice     int64     `json:"original_price" dynamodbav:"original_price"`
	DiscountedPrice   int64     `json:"discounted_price" dynamodbav:"discounted_price"`
	Category          string    `json:"category" dynamodbav:"category"`
	Subcategory       string    `json:"subcategory" dynamodbav:"subcategory"`
	Quantity          int       `json:"quantity" dynamodbav:"quantity"`
	Weight            string    `json:"weight" dynamodbav:"weight"`
	Description       string    `json:"description" dynamodbav:"description"`
	Highlights        []string  `json:"highlights,omitempty" dynamodbav:"highlights,omitempty"`
	StockAlert        int       `json:"stock_alert" dynamodbav:"stock_alert"`
	ManufacturingDate time.Time `json:"manufacturing_date" dynamodbav:"manufacturing_date"`
	Warranty          string    `json:"warranty" dynamodbav:"warranty"`
	ShippingInfo      string    `json:"shipping_info" dynamodbav:"shipping_info"`
	CreatedAt         time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
