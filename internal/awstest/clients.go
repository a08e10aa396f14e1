package awstest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// MockSQS records sent messages.
type MockSQS struct {
	mu   sync.Mutex
	Sent []*sqs.SendMessageInput
	Err  error
}

func (m *MockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Sent = append(m.Sent, params)
	return &sqs.SendMessageOutput{}, nil
}

// MockS3 records uploaded objects.
type MockS3 struct {
	mu   sync.Mutex
	Puts []*s3.PutObjectInput
	Err  error
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Puts = append(m.Puts, params)
	return &s3.PutObjectOutput{}, nil
}

// MockCloudWatch records emitted metric batches.
type MockCloudWatch struct {
	mu      sync.Mutex
	Batches []*cloudwatch.PutMetricDataInput
	Err     error
}

func (m *MockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Batches = append(m.Batches, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}
