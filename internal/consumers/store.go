package consumers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/loopxpress/backend/internal/aws"
)

const EmailIndex = "email-index"

var (
	ErrNotFound   = errors.New("consumer not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store encapsulates operations on the consumers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new consumers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create registers a consumer account.
func (s *Store) Create(ctx context.Context, consumer Consumer) error {
	existing, err := s.GetByEmail(ctx, consumer.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	now := s.nowFunc()
	consumer.CreatedAt = now
	consumer.UpdatedAt = now
	if consumer.Cart == nil {
		consumer.Cart = []CartItem{}
	}
	return s.put(ctx, consumer)
}

// Get fetches a consumer by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, consumerID string) (*Consumer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"consumer_id": &types.AttributeValueMemberS{Value: consumerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get consumer: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Consumer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal consumer: %w", err)
	}
	return &c, nil
}

// GetByEmail queries the email GSI. Returns (nil, nil) if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Consumer, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(EmailIndex),
		KeyConditionExpression: awsString("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query consumers by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var c Consumer
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, fmt.Errorf("unmarshal consumer: %w", err)
	}
	return &c, nil
}

// UpsertCartItem adds an item to the cart, merging quantities when the
// product is already present. Read-modify-write on the whole document;
// per-document atomicity is all the flow relies on.
func (s *Store) UpsertCartItem(ctx context.Context, consumerID string, item CartItem) (*Consumer, error) {
	consumer, err := s.Get(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, ErrNotFound
	}

	merged := false
	for i, existing := range consumer.Cart {
		if existing.ProductID == item.ProductID {
			consumer.Cart[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		consumer.Cart = append(consumer.Cart, item)
	}
	consumer.UpdatedAt = s.nowFunc()

	if err := s.put(ctx, *consumer); err != nil {
		return nil, err
	}
	return consumer, nil
}

// RemoveCartItem deletes a product from the cart. Removing an absent product
// is a no-op.
func (s *Store) RemoveCartItem(ctx context.Context, consumerID, productID string) (*Consumer, error) {
	consumer, err := s.Get(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, ErrNotFound
	}

	kept := consumer.Cart[:0]
	for _, item := range consumer.Cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	consumer.Cart = kept
	consumer.UpdatedAt = s.nowFunc()

	if err := s.put(ctx, *consumer); err != nil {
		return nil, err
	}
	return consumer, nil
}

func (s *Store) put(ctx context.Context, consumer Consumer) error {
	item, err := attributevalue.MarshalMap(consumer)
	if err != nil {
		return fmt.Errorf("marshal consumer: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put consumer: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
