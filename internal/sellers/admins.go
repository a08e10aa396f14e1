package sellers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/loopxpress/backend/internal/aws"
)

// AdminStore encapsulates operations on the admins table. Sign-in falls back
// to this table when an email is not found among sellers.
type AdminStore struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewAdminStore creates a new AdminStore.
func NewAdminStore(client aws.DynamoDBAPI, tableName string) *AdminStore {
	return &AdminStore{client: client, tableName: tableName}
}

// Create registers an admin account.
func (s *AdminStore) Create(ctx context.Context, admin Admin) error {
	existing, err := s.GetByEmail(ctx, admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	item, err := attributevalue.MarshalMap(admin)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(admin_id)"),
	})
	if err != nil {
		return fmt.Errorf("put admin: %w", err)
	}
	return nil
}

// Get fetches an admin by id. Returns (nil, nil) if not found.
func (s *AdminStore) Get(ctx context.Context, adminID string) (*Admin, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"admin_id": &types.AttributeValueMemberS{Value: adminID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var admin Admin
	if err := attributevalue.UnmarshalMap(out.Item, &admin); err != nil {
		return nil, fmt.Errorf("unmarshal admin: %w", err)
	}
	return &admin, nil
}

// GetByEmail queries the email GSI. Returns (nil, nil) if not found.
func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(EmailIndex),
		KeyConditionExpression: awsString("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query admins by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var admin Admin
	if err := attributevalue.UnmarshalMap(out.Items[0], &admin); err != nil {
		return nil, fmt.Errorf("unmarshal admin: %w", err)
	}
	return &admin, nil
}
