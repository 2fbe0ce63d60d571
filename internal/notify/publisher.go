package notify

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher emits domain events toward the notification worker. Publish is
// best-effort: implementations must never block the caller beyond a short
// bounded attempt and must never surface transport failure.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data map[string]string)
}

// StreamPublisher appends events to a Redis Stream. A nil client (broker
// unreachable at startup) degrades every publish to a logged warning, so the
// API keeps serving trades while notifications are down.
type StreamPublisher struct {
	client  *redis.Client
	topic   string
	timeout time.Duration
}

// NewStreamPublisher connects to the broker at addr and returns a publisher
// on the given stream. Connection failure is not fatal: the returned
// publisher simply runs in degraded mode.
func NewStreamPublisher(addr, topic string, timeout time.Duration) *StreamPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[notify.Publisher] Broker unreachable at %s, notifications disabled: %v", addr, err)
		client.Close()
		return &StreamPublisher{topic: topic, timeout: timeout}
	}

	log.Printf("[notify.Publisher] Connected to broker at %s (topic=%s)", addr, topic)
	return &StreamPublisher{client: client, topic: topic, timeout: timeout}
}

// NewStreamPublisherWithClient wraps an existing client. Used by tests and by
// callers that manage the client lifecycle themselves.
func NewStreamPublisherWithClient(client *redis.Client, topic string, timeout time.Duration) *StreamPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StreamPublisher{client: client, topic: topic, timeout: timeout}
}

// Publish appends one event to the stream. Failures are logged, never
// returned: the triggering state change has already committed and must not
// be rolled back or delayed by notification trouble.
func (p *StreamPublisher) Publish(ctx context.Context, eventType string, data map[string]string) {
	if p.client == nil {
		log.Printf("[notify.Publisher] Not connected, skipping %s notification", eventType)
		return
	}

	payload, err := Event{EventType: eventType, Data: data}.Encode()
	if err != nil {
		log.Printf("[notify.Publisher] %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.topic,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		log.Printf("[notify.Publisher] Failed to publish %s: %v", eventType, err)
		return
	}

	log.Printf("[notify.Publisher] Published %s", eventType)
}

// Close releases the underlying connection, if any.
func (p *StreamPublisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
