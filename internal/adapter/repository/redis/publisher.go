package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// EventPublisher broadcasts trip change events on a Redis pub/sub channel as JSON.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

// NewEventPublisher creates a publisher for channel.
func NewEventPublisher(client *redis.Client, channel string) *EventPublisher {
	return &EventPublisher{client: client, channel: channel}
}

// Publish sends the event. Having no subscribers is not an error.
func (p *EventPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Subscribe streams events from the channel until ctx is done.
// Messages that are not change events are skipped.
func (p *EventPublisher) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", p.channel, err)
	}

	out := make(chan domain.ChangeEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
