// Package notify delivers new-document batches to subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/radarlegislativo/ingest/internal/document"
)

// message is the wire payload published for one channel's batch.
type message struct {
	Channel   string              `json:"canal"`
	Count     int                 `json:"total"`
	Documents []document.Document `json:"documentos"`
	SentAt    time.Time           `json:"enviado_em"`
}

// PubSubNotifier publishes new-document batches to a Pub/Sub topic, one
// message per radar channel.
type PubSubNotifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSub connects to Pub/Sub and targets the given topic.
func NewPubSub(ctx context.Context, projectID, topicID string) (*PubSubNotifier, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("notifier project and topic are required")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &PubSubNotifier{
		client: client,
		topic:  client.Topic(topicID),
	}, nil
}

// NotifyNewDocuments publishes one message per channel present in docs.
func (n *PubSubNotifier) NotifyNewDocuments(ctx context.Context, docs []document.Document) error {
	if n == nil || n.topic == nil {
		return fmt.Errorf("pubsub notifier is not configured")
	}
	for channel, batch := range GroupByChannel(docs) {
		payload, err := json.Marshal(message{
			Channel:   channel,
			Count:     len(batch),
			Documents: batch,
			SentAt:    time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal notification payload: %w", err)
		}
		result := n.topic.Publish(ctx, &pubsub.Message{
			Data:       payload,
			Attributes: map[string]string{"radar": channel},
		})
		if _, err := result.Get(ctx); err != nil {
			return fmt.Errorf("publish %s notification: %w", channel, err)
		}
	}
	return nil
}

// Close flushes pending publishes and releases the client.
func (n *PubSubNotifier) Close() {
	if n == nil {
		return
	}
	if n.topic != nil {
		n.topic.Stop()
	}
	if n.client != nil {
		_ = n.client.Close()
	}
}

// GroupByChannel splits a batch by radar channel, preserving order within
// each channel.
func GroupByChannel(docs []document.Document) map[string][]document.Document {
	groups := make(map[string][]document.Document)
	for _, doc := range docs {
		channel := doc.Channel
		if channel == "" {
			channel = document.ChannelParliament
		}
		groups[channel] = append(groups[channel], doc)
	}
	return groups
}
