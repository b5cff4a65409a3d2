package sqs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type fakeSQS struct {
	mu       sync.Mutex
	pending  []types.Message
	deleted  []string
	sent     []string
	sentURLs []string
}

func (f *fakeSQS) GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("https://sqs.local/" + *params.QueueName)}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	msgs := f.pending
	f.pending = nil
	f.mu.Unlock()

	if len(msgs) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return &sqs.ReceiveMessageOutput{Messages: msgs}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, *params.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *params.MessageBody)
	f.sentURLs = append(f.sentURLs, *params.QueueUrl)
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeSQS) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func TestWorkerDeletesOnlyHandledMessages(t *testing.T) {
	client := &fakeSQS{pending: []types.Message{
		{MessageId: aws.String("ok"), ReceiptHandle: aws.String("rh-ok"), Body: aws.String(`{}`)},
		{MessageId: aws.String("bad"), ReceiptHandle: aws.String("rh-bad"), Body: aws.String(`{}`)},
	}}

	handled := make(chan string, 2)
	handler := HandlerFunc(func(ctx context.Context, msg *types.Message) error {
		handled <- *msg.MessageId
		if *msg.MessageId == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	worker, err := NewWorker(context.Background(), client, "pirate-weather-get", handler, &WorkerConfig{WaitTimeSeconds: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("messages were not handled")
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(client.deletedHandles()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	deleted := client.deletedHandles()
	if len(deleted) != 1 || deleted[0] != "rh-ok" {
		t.Fatalf("expected only rh-ok to be deleted, got %v", deleted)
	}
	if worker.HealthCheck().Status != StatusDown {
		t.Fatal("stopped worker should report DOWN")
	}
}

func TestNewWorkerValidatesConfig(t *testing.T) {
	_, err := NewWorker(context.Background(), &fakeSQS{}, "q", HandlerFunc(nil), &WorkerConfig{MaxNumberOfMessages: 11})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSenderCachesQueueURL(t *testing.T) {
	client := &fakeSQS{}
	sender := NewSender(client)

	for i := 0; i < 2; i++ {
		if err := sender.SendMessage(context.Background(), "pirate-weather-data", map[string]any{"instanceId": "mod1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(client.sent) != 2 || client.sent[0] != `{"instanceId":"mod1"}` {
		t.Fatalf("unexpected sent messages: %v", client.sent)
	}
	if client.sentURLs[1] != "https://sqs.local/pirate-weather-data" {
		t.Fatalf("unexpected queue url %q", client.sentURLs[1])
	}
}
