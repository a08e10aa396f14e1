package orders

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

// GatewayOrderIndex is the GSI keyed on razorpay_order_id; one gateway order
// fans out to N order documents, one per cart line item.
const GatewayOrderIndex = "razorpay_order_id-index"

// ErrNotFound indicates the order id did not resolve.
var ErrNotFound = errors.New("order not found")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists an order document. OrderID must be set by the caller;
// CreatedAt/UpdatedAt are stamped here if empty.
func (s *Store) Create(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = StatusPlaced
	}
	if order.ApprovalStatus == "" {
		order.ApprovalStatus = ApprovalPending
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// SetGatewayOrderID stores the freshly minted gateway order id on an existing
// order (approval-gated checkout). ErrNotFound if the order does not exist.
func (s *Store) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET razorpay_order_id = :oid, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: gatewayOrderID},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrNotFound
		}
		return fmt.Errorf("set gateway order id: %w", err)
	}
	return nil
}

// UpdateApproval sets the approval status (Approved/Rejected) by order id.
// Repeated calls with the same status are no-ops, matching the admin
// workflow's idempotency. Returns the updated order, ErrNotFound if absent.
func (s *Store) UpdateApproval(ctx context.Context, orderID, approval string) (*Order, error) {
	now := s.nowFunc()
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #a = :ap, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#a": "approval_status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ap": &types.AttributeValueMemberS{Value: approval},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
		ReturnValues:        types.ReturnValueAllNew,
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update approval: %w", err)
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// AttachPayment records the verified gateway identifiers and the payment
// reference on an existing order (single-order verification variant).
func (s *Store) AttachPayment(ctx context.Context, orderID, gatewayOrderID, gatewayPaymentID, signature, paymentID string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET razorpay_order_id = :oid, razorpay_payment_id = :pid, razorpay_signature = :sig, payment_id = :pref, #s = :st, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid":  &types.AttributeValueMemberS{Value: gatewayOrderID},
			":pid":  &types.AttributeValueMemberS{Value: gatewayPaymentID},
			":sig":  &types.AttributeValueMemberS{Value: signature},
			":pref": &types.AttributeValueMemberS{Value: paymentID},
			":st":   &types.AttributeValueMemberS{Value: StatusPlaced},
			":ua":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrNotFound
		}
		return fmt.Errorf("attach payment: %w", err)
	}
	return nil
}

// ByGatewayOrderID returns every order document sharing a gateway order id.
func (s *Store) ByGatewayOrderID(ctx context.Context, gatewayOrderID string) ([]Order, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(GatewayOrderIndex),
		KeyConditionExpression: awsString("razorpay_order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: gatewayOrderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query orders by gateway id: %w", err)
	}

	orders := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatusByGatewayOrderID sets the delivery status on every order that
// shares the gateway order id and returns how many were updated. The caller
// validates status membership; this method writes whatever it is given.
func (s *Store) UpdateStatusByGatewayOrderID(ctx context.Context, gatewayOrderID, status string) (int, error) {
	matches, err := s.ByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return 0, err
	}

	now := s.nowFunc()
	for _, o := range matches {
		_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
			TableName: &s.tableName,
			Key: map[string]types.AttributeValue{
				"order_id": &types.AttributeValueMemberS{Value: o.OrderID},
			},
			UpdateExpression:         awsString("SET #s = :st, updated_at = :ua"),
			ExpressionAttributeNames: map[string]string{"#s": "status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":st": &types.AttributeValueMemberS{Value: status},
				":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("update order %s status: %w", o.OrderID, err)
		}
	}
	return len(matches), nil
}

// List returns all orders. Backs the admin listing endpoint.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	orders := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func awsString(s string) *string { return &s }
