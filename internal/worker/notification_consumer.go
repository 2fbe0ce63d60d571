package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/gametrade/internal/mailer"
	"github.com/ignite/gametrade/internal/notify"
)

// NotificationConsumer reads notification events from the queue under a
// named consumer group and turns them into outbound emails.
//
// Delivery is at-least-once: messages are acknowledged after processing, so
// a crashed worker's unacknowledged entries are redelivered on restart.
// A single message failing to deliver is logged and dropped; only losing
// the subscription itself (broker unreachable) interrupts the loop, and the
// worker then reconnects forever on a fixed backoff.
type NotificationConsumer struct {
	client    *redis.Client
	topic     string
	group     string
	consumer  string
	transport mailer.Transport
	handlers  map[string]func(data map[string]string)

	backoff      time.Duration
	readBlock    time.Duration
	claimMinIdle time.Duration
	claimEvery   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewNotificationConsumer creates a consumer for the given stream and group.
// The consumer name is derived from the hostname so a restarted worker keeps
// its identity and finds its own unacknowledged entries; entries stranded
// under other names (a replaced host, a renamed pod) are adopted by the
// stale-entry claim.
func NewNotificationConsumer(client *redis.Client, topic, group string, transport mailer.Transport) *NotificationConsumer {
	c := &NotificationConsumer{
		client:       client,
		topic:        topic,
		group:        group,
		consumer:     consumerName(),
		transport:    transport,
		backoff:      10 * time.Second,
		readBlock:    5 * time.Second,
		claimMinIdle: time.Minute,
		claimEvery:   time.Minute,
	}
	c.handlers = map[string]func(map[string]string){
		notify.EventPasswordChanged:    c.handlePasswordChanged,
		notify.EventTradeOfferCreated:  c.handleTradeOfferCreated,
		notify.EventTradeOfferAccepted: c.handleTradeOfferAccepted,
		notify.EventTradeOfferRejected: c.handleTradeOfferRejected,
	}
	return c
}

// consumerName is stable across restarts of the same host. The random
// fallback only matters where no hostname is available.
func consumerName() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return "worker-" + host
	}
	return fmt.Sprintf("worker-%s", uuid.New().String()[:8])
}

// Start begins consuming in a background goroutine.
func (c *NotificationConsumer) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer already running")
	}
	c.running = true
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.mu.Unlock()

	log.Printf("[NotificationConsumer] Starting (topic=%s group=%s consumer=%s)", c.topic, c.group, c.consumer)
	c.wg.Add(1)
	go c.run()
	return nil
}

// Stop terminates the loop and waits for it to exit. In-flight messages are
// simply abandoned; redelivery covers them.
func (c *NotificationConsumer) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
	log.Printf("[NotificationConsumer] Stopped")
}

func (c *NotificationConsumer) run() {
	defer c.wg.Done()
	for {
		if c.ctx.Err() != nil {
			return
		}
		if err := c.ensureGroup(); err != nil {
			log.Printf("[NotificationConsumer] Cannot create consumer group: %v. Retrying in %s...", err, c.backoff)
			c.sleep()
			continue
		}
		if err := c.consume(); err != nil {
			log.Printf("[NotificationConsumer] Subscription error: %v. Retrying in %s...", err, c.backoff)
			c.sleep()
		}
	}
}

// ensureGroup creates the consumer group, starting from the beginning of the
// stream so events published before the first worker came up are not lost.
func (c *NotificationConsumer) ensureGroup() error {
	err := c.client.XGroupCreateMkStream(c.ctx, c.topic, c.group, "0").Err()
	if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// consume reads messages until the subscription fails or the consumer is
// stopped. The first read picks up this consumer's own pending entries from
// a previous run of the same name; claimStale covers entries stranded under
// other consumer names.
func (c *NotificationConsumer) consume() error {
	log.Printf("[NotificationConsumer] Connected. Waiting for messages...")
	c.claimStale()
	lastClaim := time.Now()
	cursor := "0"
	for {
		if c.ctx.Err() != nil {
			return nil
		}
		if time.Since(lastClaim) >= c.claimEvery {
			c.claimStale()
			lastClaim = time.Now()
		}
		res, err := c.client.XReadGroup(c.ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.topic, cursor},
			Count:    10,
			Block:    c.readBlock,
		}).Result()
		if errors.Is(err, redis.Nil) {
			cursor = ">"
			continue
		}
		if err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			return err
		}

		drained := true
		for _, stream := range res {
			for _, msg := range stream.Messages {
				drained = false
				c.process(msg)
				if err := c.client.XAck(c.ctx, c.topic, c.group, msg.ID).Err(); err != nil && c.ctx.Err() == nil {
					log.Printf("[NotificationConsumer] Ack failed for %s: %v", msg.ID, err)
				}
			}
		}
		if cursor == "0" && drained {
			cursor = ">"
		}
	}
}

// claimStale adopts unacknowledged entries sitting in other consumers' pending
// lists once they have been idle for claimMinIdle, then processes and acks
// them. Without this, a message read by a crashed worker under a name nobody
// reuses would stay pending forever.
func (c *NotificationConsumer) claimStale() {
	start := "0-0"
	for {
		msgs, next, err := c.client.XAutoClaim(c.ctx, &redis.XAutoClaimArgs{
			Stream:   c.topic,
			Group:    c.group,
			Consumer: c.consumer,
			MinIdle:  c.claimMinIdle,
			Start:    start,
			Count:    100,
		}).Result()
		if err != nil {
			if c.ctx.Err() == nil && !errors.Is(err, redis.Nil) {
				log.Printf("[NotificationConsumer] Claim failed: %v", err)
			}
			return
		}
		for _, msg := range msgs {
			log.Printf("[NotificationConsumer] Claimed stale message %s", msg.ID)
			c.process(msg)
			if err := c.client.XAck(c.ctx, c.topic, c.group, msg.ID).Err(); err != nil && c.ctx.Err() == nil {
				log.Printf("[NotificationConsumer] Ack failed for %s: %v", msg.ID, err)
			}
		}
		if len(msgs) == 0 || next == "0-0" {
			return
		}
		start = next
	}
}

// process handles one message. Failures here never propagate: a bad payload
// or a failed delivery must not stall the queue.
func (c *NotificationConsumer) process(msg redis.XMessage) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		log.Printf("[NotificationConsumer] Message %s has no payload, dropping", msg.ID)
		return
	}
	event, err := notify.DecodeEvent([]byte(payload))
	if err != nil {
		log.Printf("[NotificationConsumer] Message %s: %v, dropping", msg.ID, err)
		return
	}
	log.Printf("[NotificationConsumer] Received message %s: %s", msg.ID, event.EventType)

	handler, ok := c.handlers[event.EventType]
	if !ok {
		log.Printf("[NotificationConsumer] Unknown event type: %s", event.EventType)
		return
	}
	handler(event.Data)
}

// send delivers one email, absorbing transport errors.
func (c *NotificationConsumer) send(to, subject, body string) {
	if err := c.transport.Send(to, subject, body); err != nil {
		log.Printf("[NotificationConsumer] Failed to send email to %s: %v", to, err)
	}
}

func (c *NotificationConsumer) sleep() {
	select {
	case <-c.ctx.Done():
	case <-time.After(c.backoff):
	}
}
