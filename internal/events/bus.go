package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Topic names. OrderEvents carries the domain events that the notification
// subscriber turns into rows; the Stream* topics fan out to SSE clients.
const (
	TopicOrderEvents    = "order-events"
	TopicOrderUpdates   = "stream:order-updates"
	TopicDashboardStats = "stream:dashboard-stats"
	TopicUserActivity   = "stream:user-activity"
)

// Event is the wire format on every topic: a type tag plus a free-form payload.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// Handler processes one inbound event. Errors are logged, not retried;
// delivery is at-most-once and handlers must tolerate out-of-order messages.
type Handler func(ctx context.Context, ev Event) error

// Bus is a redis pub/sub event bus. It is constructed once at startup and
// injected into the services that publish or subscribe; there is no package
// level instance.
type Bus struct {
	client *redis.Client
}

// NewBus creates a new event bus on the given redis client
func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// Publish JSON-encodes the event onto the topic channel. Subscribers that are
// not connected at publish time miss the message; there is no persistence.
func (b *Bus) Publish(ctx context.Context, topic string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes the topic on a background goroutine, dispatching messages
// serially to the handler until ctx is cancelled. Malformed messages and
// handler errors are logged and skipped.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) {
	sub := b.client.Subscribe(ctx, topic)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[events] bad message on %s: %v", topic, err)
					continue
				}
				if err := handler(ctx, ev); err != nil {
					log.Printf("[events] handler error on %s (type=%s): %v", topic, ev.Type, err)
				}
			}
		}
	}()
}

// Raw returns a subscription on the topic delivering unparsed payload strings.
// Used by the SSE stream handlers, which forward messages verbatim.
func (b *Bus) Raw(ctx context.Context, topic string) *redis.PubSub {
	return b.client.Subscribe(ctx, topic)
}
