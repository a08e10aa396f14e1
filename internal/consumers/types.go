package consumers

import "time"

// CartItem is one cart entry, embedded on the consumer document.
// Price is in integer minor units.
type CartItem struct {
	ProductID   string `json:"product_id" dynamodbav:"product_id"`
	Title       string `json:"title" dynamodbav:"title"`
	Quantity    int    `json:"quantity" dynamodbav:"quantity"`
	ImageURL    string `json:"image_url" dynamodbav:"image_url"`
	Brand       string `json:"brand" dynamodbav:"brand"`
	Category    string `json:"category" dynamodbav:"category"`
	Subcategory string `json:"subcategory,omitempty" dynamodbav:"subcategory,omitempty"`
	Price       int64  `json:"price" dynamodbav:"price"`
}

// Consumer is a buyer account.
type Consumer struct {
	ConsumerID   string     `json:"consumer_id" dynamodbav:"consumer_id"` // PK
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"` // GSI key
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	PhoneNumber  string     `json:"phone_number,omitempty" dynamodbav:"phone_number,omitempty"`
	Address      string     `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Cart         []CartItem `json:"cart" dynamodbav:"cart"`
	CreatedAt    time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}
