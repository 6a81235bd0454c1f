// Package notify announces finished batch runs to the downstream email
// consumer over a pub/sub channel.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"linkscraper/internal/logger"
)

// Publisher sends a raw payload on a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// CompletionMessage is the one-shot event published when a run reaches a
// terminal summary.
type CompletionMessage struct {
	FileID            int64       `json:"file_id"`
	Email             string      `json:"email"`
	ProcessingResults interface{} `json:"processing_results"`
	Timestamp         string      `json:"timestamp"`
}

type Gateway struct {
	log     *logger.Logger
	pub     Publisher
	channel string
}

func NewGateway(pub Publisher, channel string) *Gateway {
	return &Gateway{log: logger.New("NotifyGateway"), pub: pub, channel: channel}
}

// PublishCompletion is fire-and-forget: failures are logged and swallowed so
// a lost notification never changes the job's terminal status.
func (g *Gateway) PublishCompletion(ctx context.Context, fileID int64, email string, results interface{}) {
	msg := CompletionMessage{
		FileID:            fileID,
		Email:             email,
		ProcessingResults: results,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	}

	b, err := json.Marshal(msg)
	if err != nil {
		g.log.LogErrorf("failed to marshal completion message for file %d: %v", fileID, err)
		return
	}

	if err := g.pub.Publish(ctx, g.channel, b); err != nil {
		g.log.LogErrorf("failed to publish completion for file %d on %s: %v", fileID, g.channel, err)
		return
	}

	g.log.LogInfof("published completion on %s: file=%d email=%s", g.channel, fileID, email)
}
