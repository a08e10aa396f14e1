package inventory

import "time"

// LocationStock is the stock held at one warehouse location.
type LocationStock struct {
	LocationName string `json:"location_name" dynamodbav:"location_name"`
	Stock        int    `json:"stock" dynamodbav:"stock"`
}

// Record tracks per-location stock for a product. Quantity is always the sum
// of the location stocks, computed explicitly by TotalQuantity before a write.
type Record struct {
	ProductID         string          `json:"product_id" dynamodbav:"product_id"` // PK
	SellerID          string          `json:"seller_id" dynamodbav:"seller_id"`   // GSI key
	Quantity          int             `json:"quantity" dynamodbav:"quantity"`
	LocationWiseStock []LocationStock `json:"location_wise_stock" dynamodbav:"location_wise_stock"`
	LastUpdated       time.Time       `json:"last_updated" dynamodbav:"last_updated"`
}

// TotalQuantity sums the location stocks.
func TotalQuantity(locations []LocationStock) int {
	total := 0
	for _, loc := range locations {
		total += loc.Stock
	}
	return total
}
