package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/iyhunko/product-catalog/internal/config"
)

// NewClient creates an SQS client for region. A non-empty endpoint overrides the
// AWS one (LocalStack).
func NewClient(ctx context.Context, region string, endpoint string) (*sqs.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(endpoint)
	}

	return sqs.NewFromConfig(awsCfg), nil
}

// NewPublisherFromConfig returns a Publisher for the configured queue, or nil when
// notifications are disabled.
func NewPublisherFromConfig(ctx context.Context, conf config.AWSConfig) (*Publisher, error) {
	if conf.SQSQueueURL == "" {
		return nil, nil
	}
	client, err := NewClient(ctx, conf.Region, conf.Endpoint)
	if err != nil {
		return nil, err
	}
	return NewPublisher(client, conf.SQSQueueURL), nil
}
