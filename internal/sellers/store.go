package sellers

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

// GSIs on the sellers table.
const (
	EmailIndex      = "email-index"
	GSTIndex        = "gst_number-index"
	ResetTokenIndex = "reset_token-index"
)

var (
	ErrNotFound   = errors.New("seller not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store encapsulates operations on the sellers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new sellers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create registers a seller. The email uniqueness check is a GSI lookup
// followed by a write, not an atomic pair; acceptable for onboarding volume.
func (s *Store) Create(ctx context.Context, seller Seller) error {
	existing, err := s.GetByEmail(ctx, seller.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	now := s.nowFunc()
	seller.CreatedAt = now
	seller.UpdatedAt = now

	item, err := attributevalue.MarshalMap(seller)
	if err != nil {
		return fmt.Errorf("marshal seller: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(seller_id)"),
	})
	if err != nil {
		return fmt.Errorf("put seller: %w", err)
	}
	return nil
}

// Get fetches a seller by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, sellerID string) (*Seller, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"seller_id": &types.AttributeValueMemberS{Value: sellerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var seller Seller
	if err := attributevalue.UnmarshalMap(out.Item, &seller); err != nil {
		return nil, fmt.Errorf("unmarshal seller: %w", err)
	}
	return &seller, nil
}

// GetByEmail queries the email GSI. Returns (nil, nil) if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Seller, error) {
	return s.queryOne(ctx, EmailIndex, "email", email)
}

// GetByResetToken queries the reset token GSI. Returns (nil, nil) if not found.
func (s *Store) GetByResetToken(ctx context.Context, token string) (*Seller, error) {
	return s.queryOne(ctx, ResetTokenIndex, "reset_token", token)
}

// ExistsByGST reports whether any seller has registered the GSTIN.
func (s *Store) ExistsByGST(ctx context.Context, gstin string) (bool, error) {
	seller, err := s.queryOne(ctx, GSTIndex, "gst_number", gstin)
	if err != nil {
		return false, err
	}
	return seller != nil, nil
}

func (s *Store) queryOne(ctx context.Context, index, attr, value string) (*Seller, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(index),
		KeyConditionExpression: awsString("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query sellers by %s: %w", attr, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var seller Seller
	if err := attributevalue.UnmarshalMap(out.Items[0], &seller); err != nil {
		return nil, fmt.Errorf("unmarshal seller: %w", err)
	}
	return &seller, nil
}

// UpdatePersonal overwrites the contact block, keeping the stored password hash.
func (s *Store) UpdatePersonal(ctx context.Context, sellerID string, details PersonalDetails) (*Seller, error) {
	seller, err := s.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrNotFound
	}

	details.PasswordHash = seller.PersonalDetails.PasswordHash
	seller.PersonalDetails = details
	seller.Email = details.Email
	seller.UpdatedAt = s.nowFunc()

	if err := s.put(ctx, *seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// UpdatePasswordHash replaces the stored hash and clears any reset token.
func (s *Store) UpdatePasswordHash(ctx context.Context, sellerID, hash string) error {
	seller, err := s.Get(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return ErrNotFound
	}

	seller.PersonalDetails.PasswordHash = hash
	seller.ResetToken = ""
	seller.ResetTokenExpiry = time.Time{}
	seller.UpdatedAt = s.nowFunc()
	return s.put(ctx, *seller)
}

// SetResetToken stores a password reset token with its expiry.
func (s *Store) SetResetToken(ctx context.Context, sellerID, token string, expiry time.Time) error {
	seller, err := s.Get(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return ErrNotFound
	}

	seller.ResetToken = token
	seller.ResetTokenExpiry = expiry
	seller.UpdatedAt = s.nowFunc()
	return s.put(ctx, *seller)
}

// List returns all sellers. Backs the admin listing.
func (s *Store) List(ctx context.Context) ([]Seller, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan sellers: %w", err)
	}
	list := make([]Seller, 0, len(out.Items))
	for _, item := range out.Items {
		var seller Seller
		if err := attributevalue.UnmarshalMap(item, &seller); err != nil {
			return nil, fmt.Errorf("unmarshal seller: %w", err)
		}
		list = append(list, seller)
	}
	return list, nil
}

func (s *Store) put(ctx context.Context, seller Seller) error {
	item, err := attributevalue.MarshalMap(seller)
	if err != nil {
		return fmt.Errorf("marshal seller: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put seller: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
