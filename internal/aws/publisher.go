package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// OrderPlacedEvent is the message body sent to the order events queue after
// a payment has been verified and its order documents persisted.
type OrderPlacedEvent struct {
	GatewayOrderID   string   `json:"razorpay_order_id"`
	GatewayPaymentID string   `json:"razorpay_payment_id"`
	OrderIDs         []string `json:"order_ids"`
	Amount           int64    `json:"amount"`
	Currency         string   `json:"currency"`
	ItemCount        int      `json:"item_count"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishOrderPlaced serializes the event and sends it to the queue.
// The gateway ids also ride along as message attributes so consumers can
// filter without unmarshalling the body.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	bodyStr := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"razorpay_order_id": {
				DataType:    awsString("String"),
				StringValue: &ev.GatewayOrderID,
			},
			"razorpay_payment_id": {
				DataType:    awsString("String"),
				StringValue: &ev.GatewayPaymentID,
			},
		},
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
