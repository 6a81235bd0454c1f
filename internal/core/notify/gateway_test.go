package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"linkscraper/internal/core/notify"
)

type capturePublisher struct {
	channel string
	payload []byte
	calls   int
	err     error
}

func (p *capturePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.calls++
	p.channel = channel
	p.payload = payload
	return p.err
}

func TestPublishCompletionShape(t *testing.T) {
	pub := &capturePublisher{}
	gw := notify.NewGateway(pub, "processing_complete")

	results := map[string]interface{}{
		"success":   true,
		"processed": 8,
		"failed":    2,
	}
	gw.PublishCompletion(context.Background(), 42, "user@example.com", results)

	if pub.calls != 1 {
		t.Fatalf("Publish called %d times, want 1", pub.calls)
	}
	if pub.channel != "processing_complete" {
		t.Errorf("channel = %q, want processing_complete", pub.channel)
	}

	var msg notify.CompletionMessage
	if err := json.Unmarshal(pub.payload, &msg); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if msg.FileID != 42 {
		t.Errorf("file_id = %d, want 42", msg.FileID)
	}
	if msg.Email != "user@example.com" {
		t.Errorf("email = %q", msg.Email)
	}
	if msg.ProcessingResults == nil {
		t.Error("processing_results missing")
	}
	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", msg.Timestamp, err)
	}
}

func TestPublishCompletionSwallowsPublisherError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	gw := notify.NewGateway(pub, "processing_complete")

	// Must not panic or surface the error.
	gw.PublishCompletion(context.Background(), 42, "user@example.com", nil)

	if pub.calls != 1 {
		t.Fatalf("Publish called %d times, want 1", pub.calls)
	}
}
