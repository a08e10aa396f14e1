package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/loopxpress/backend/internal/aws"
)

const metricNamespace = "LoopXpress/Orders"

// Processor consumes order-placed events and publishes business metrics.
type Processor struct {
	cloudwatch aws.CloudWatchAPI
	nowFunc    func() time.Time
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients) *Processor {
	return &Processor{
		cloudwatch: clients.CloudWatch,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev aws.OrderPlacedEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received gateway_order=%s payment=%s orders=%d",
		ev.GatewayOrderID, ev.GatewayPaymentID, len(ev.OrderIDs))

	now := p.nowFunc()
	orderCount := float64(len(ev.OrderIDs))
	amountMajor := float64(ev.Amount) / 100

	_, err := p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: strPtr(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: strPtr("OrdersPlaced"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      &orderCount,
			},
			{
				MetricName: strPtr("OrderAmount"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitNone,
				Value:      &amountMajor,
				Dimensions: []cwtypes.Dimension{
					{Name: strPtr("Currency"), Value: strPtr(ev.Currency)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}

	log.Printf("[worker] metrics published for gateway_order=%s", ev.GatewayOrderID)
	return nil
}

func strPtr(s string) *string { return &s }
