package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub. Without a project id events are only
// logged.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	if projectID == "" {
		log.Info("No GCP project configured, events will not be published")
		return nop{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &client{
		client: pubSubC,
	}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Debug("SendMessage", "serverID", serverID, "topic", topic)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() error {
	return c.client.Close()
}

func decode(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// nop drops events. Used when Pub/Sub is not configured.
type nop struct{}

func (nop) SendMessage(ctx context.Context, topic EventType, data any) error {
	log.Debug("Pub/Sub disabled, dropping event", "topic", topic)
	return nil
}

func (nop) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (nop) Close() error {
	return nil
}
