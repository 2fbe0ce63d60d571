package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/gametrade/internal/notify"
)

// recordingTransport captures sends and can be told to fail for specific
// recipients.
type recordingTransport struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (r *recordingTransport) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTo[to] {
		return errors.New("smtp: connection refused")
	}
	r.sent = append(r.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (r *recordingTransport) mails() []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMail, len(r.sent))
	copy(out, r.sent)
	return out
}

func setupConsumer(t *testing.T) (*NotificationConsumer, *redis.Client, *recordingTransport) {
	t.Helper()
	_, client := runMiniredis(t)
	transport := &recordingTransport{failTo: map[string]bool{}}
	c := NewNotificationConsumer(client, "email-notifications", "email-notification-group", transport)
	c.readBlock = 50 * time.Millisecond
	c.backoff = 50 * time.Millisecond
	return c, client, transport
}

func runMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func publishEvent(t *testing.T, client *redis.Client, ev notify.Event) {
	t.Helper()
	payload, err := ev.Encode()
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	err = client.XAdd(context.Background(), &redis.XAddArgs{
		Stream: "email-notifications",
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		t.Fatalf("xadd: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func offerEventData() map[string]string {
	return map[string]string{
		"offerer_email":  "alice@example.com",
		"offerer_name":   "Alice",
		"receiver_email": "bob@example.com",
		"receiver_name":  "Bob",
		"offered_game":   "Chrono Trigger (SNES, mint)",
		"requested_game": "Earthbound (SNES, good)",
	}
}

func TestConsumerDeliversOfferEventToBothParties(t *testing.T) {
	c, client, transport := setupConsumer(t)

	publishEvent(t, client, notify.Event{EventType: notify.EventTradeOfferCreated, Data: offerEventData()})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	waitFor(t, func() bool { return len(transport.mails()) == 2 }, "two deliveries")

	mails := transport.mails()
	recipients := map[string]string{}
	for _, m := range mails {
		recipients[m.to] = m.subject
	}
	if recipients["alice@example.com"] != "Trade Offer Sent - Video Game Trading" {
		t.Errorf("offerer mail = %q", recipients["alice@example.com"])
	}
	if recipients["bob@example.com"] != "New Trade Offer Received - Video Game Trading" {
		t.Errorf("receiver mail = %q", recipients["bob@example.com"])
	}

	// The message was acknowledged: nothing stays pending in the group.
	pending, err := client.XPending(context.Background(), "email-notifications", "email-notification-group").Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0", pending.Count)
	}
}

func TestConsumerPasswordChangedMailsOneUser(t *testing.T) {
	c, client, transport := setupConsumer(t)

	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "alice@example.com", "user_name": "Alice"},
	})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	waitFor(t, func() bool { return len(transport.mails()) == 1 }, "one delivery")

	m := transport.mails()[0]
	if m.to != "alice@example.com" || m.subject != "Password Changed - Video Game Trading" {
		t.Errorf("mail = %+v", m)
	}
}

func TestConsumerDropsUnknownEventType(t *testing.T) {
	c, client, transport := setupConsumer(t)

	publishEvent(t, client, notify.Event{EventType: "unknown_event", Data: map[string]string{"x": "y"}})
	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "alice@example.com", "user_name": "Alice"},
	})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	// The later message is processed, proving the unknown one was consumed
	// and dropped without crashing the loop.
	waitFor(t, func() bool { return len(transport.mails()) == 1 }, "delivery after unknown event")

	pending, err := client.XPending(context.Background(), "email-notifications", "email-notification-group").Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0 (unknown event must be acked)", pending.Count)
	}
}

func TestConsumerSurvivesFailingTransport(t *testing.T) {
	c, client, transport := setupConsumer(t)
	transport.failTo["broken@example.com"] = true

	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "broken@example.com", "user_name": "Broken"},
	})
	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "alice@example.com", "user_name": "Alice"},
	})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	waitFor(t, func() bool { return len(transport.mails()) == 1 }, "delivery after failed one")
	if transport.mails()[0].to != "alice@example.com" {
		t.Errorf("delivered to %s, want alice@example.com", transport.mails()[0].to)
	}
}

func TestConsumerProcessMalformedPayload(t *testing.T) {
	c, _, transport := setupConsumer(t)

	c.process(redis.XMessage{ID: "1-0", Values: map[string]interface{}{"payload": "{not json"}})
	c.process(redis.XMessage{ID: "2-0", Values: map[string]interface{}{"other": "field"}})

	if got := len(transport.mails()); got != 0 {
		t.Errorf("deliveries = %d, want 0", got)
	}
}

func TestConsumerStartTwice(t *testing.T) {
	c, _, _ := setupConsumer(t)
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()
	if err := c.Start(); err == nil {
		t.Error("second Start should fail")
	}
}

func TestConsumerNameIsStable(t *testing.T) {
	a, _, _ := setupConsumer(t)
	b, _, _ := setupConsumer(t)
	// A restarted worker must present the same name to the group, or its
	// own pending entries become unreachable through the "0" cursor.
	if a.consumer != b.consumer {
		t.Errorf("consumer names differ across instances: %s vs %s", a.consumer, b.consumer)
	}
	if fmt.Sprintf("%.7s", a.consumer) != "worker-" {
		t.Errorf("consumer name = %s, want worker- prefix", a.consumer)
	}
}

func TestConsumerAdoptsAbandonedEntries(t *testing.T) {
	c, client, transport := setupConsumer(t)
	c.claimMinIdle = 0

	ctx := context.Background()
	err := client.XGroupCreateMkStream(ctx, "email-notifications", "email-notification-group", "0").Err()
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "alice@example.com", "user_name": "Alice"},
	})

	// A worker under another name reads the message and dies before acking,
	// leaving it in that name's pending list.
	_, err = client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    "email-notification-group",
		Consumer: "worker-goner",
		Streams:  []string{"email-notifications", ">"},
		Count:    10,
	}).Result()
	if err != nil {
		t.Fatalf("doomed read: %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	waitFor(t, func() bool { return len(transport.mails()) == 1 }, "delivery of the abandoned message")
	if got := transport.mails()[0].to; got != "alice@example.com" {
		t.Errorf("delivered to %s, want alice@example.com", got)
	}

	pending, err := client.XPending(ctx, "email-notifications", "email-notification-group").Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0 after adoption", pending.Count)
	}
}

func TestConsumerReconnectsAfterBrokerOutage(t *testing.T) {
	mr, client := runMiniredis(t)
	transport := &recordingTransport{failTo: map[string]bool{}}
	c := NewNotificationConsumer(client, "email-notifications", "email-notification-group", transport)
	c.readBlock = 50 * time.Millisecond
	c.backoff = 50 * time.Millisecond

	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "alice@example.com", "user_name": "Alice"},
	})
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()
	waitFor(t, func() bool { return len(transport.mails()) == 1 }, "delivery before the outage")

	// Broker goes away; the consumer must ride it out on its backoff.
	mr.Close()
	time.Sleep(200 * time.Millisecond)
	if err := mr.Restart(); err != nil {
		t.Fatalf("restart miniredis: %v", err)
	}

	publishEvent(t, client, notify.Event{
		EventType: notify.EventPasswordChanged,
		Data:      map[string]string{"user_email": "bob@example.com", "user_name": "Bob"},
	})
	waitFor(t, func() bool { return len(transport.mails()) == 2 }, "delivery after reconnect")
	if got := transport.mails()[1].to; got != "bob@example.com" {
		t.Errorf("delivered to %s, want bob@example.com", got)
	}
}
