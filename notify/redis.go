package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Topic is the pub/sub channel carrying track-change payloads.
const Topic = "nowplaying"

// RedisChannel publishes payloads to a Redis pub/sub topic, which lets the
// poller and the API server run as separate processes: the server relays
// the topic into its websocket hub.
type RedisChannel struct {
	client *redis.Client
	topic  string
}

// NewRedisChannel creates a channel on the given topic.
func NewRedisChannel(client *redis.Client, topic string) *RedisChannel {
	return &RedisChannel{client: client, topic: topic}
}

// Publish implements Channel.
func (c *RedisChannel) Publish(ctx context.Context, payload PushPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}
	if err := c.client.Publish(ctx, c.topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", c.topic, err)
	}
	return nil
}

// Relay subscribes to the topic and forwards every payload into the hub
// until ctx is cancelled.
func (c *RedisChannel) Relay(ctx context.Context, hub *Hub) {
	sub := c.client.Subscribe(ctx, c.topic)
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
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
