package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/loopxpress/backend/internal/aws"
)

const SellerIndex = "seller_id-index"

// Store encapsulates operations on the inventory table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new inventory Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put upserts an inventory record, recomputing the total quantity.
func (s *Store) Put(ctx context.Context, rec Record) error {
	rec.Quantity = TotalQuantity(rec.LocationWiseStock)
	rec.LastUpdated = s.nowFunc()

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal inventory record: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put inventory record: %w", err)
	}
	return nil
}

// Get fetches the record for a product. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, productID string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal inventory record: %w", err)
	}
	return &rec, nil
}

// BySeller returns the seller's inventory records.
func (s *Store) BySeller(ctx context.Context, sellerID string) ([]Record, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(SellerIndex),
		KeyConditionExpression: awsString("seller_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sellerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query inventory by seller: %w", err)
	}

	list := make([]Record, 0, len(out.Items))
	for _, item := range out.Items {
		var rec Record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, nil
}

func awsString(s string) *string { return &s }
