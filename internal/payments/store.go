package payments

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

// ErrDuplicate indicates a payment with the same gateway payment id already exists.
var ErrDuplicate = errors.New("payment already recorded")

// Store encapsulates operations on the payments table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new payments Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a payment record. Payments are immutable, so the write is
// conditional on the gateway payment id not existing yet.
func (s *Store) Create(ctx context.Context, p Payment) error {
	if p.Status == "" {
		p.Status = StatusSuccess
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.nowFunc()
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(razorpay_payment_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrDuplicate
		}
		return fmt.Errorf("put payment: %w", err)
	}
	return nil
}

// Get fetches a payment by gateway payment id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, gatewayPaymentID string) (*Payment, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"razorpay_payment_id": &types.AttributeValueMemberS{Value: gatewayPaymentID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Payment
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	return &p, nil
}

func awsString(s string) *string { return &s }
