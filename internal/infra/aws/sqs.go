package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func NewSqsClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return sqs.NewFromConfig(cfg), nil
}
