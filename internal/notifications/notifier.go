// Package notifications fans chat events out to websocket clients,
// mirroring them through Redis so every instance delivers the same room.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes chat events into Redis channels. A nil Redis
// client makes every call a no-op so single-instance deployments work
// without Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether the notifier is backed by a live Redis client.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// Publish marshals event and sends it to the given channel.
func (n *Notifier) Publish(ctx context.Context, channel string, event Event) error {
	if !n.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe listens on channel and calls onMessage for each incoming
// payload until ctx is cancelled. The handler runs on a dedicated
// goroutine; panics inside it are recovered and logged.
func (n *Notifier) Subscribe(ctx context.Context, channel string, onMessage func(data []byte)) {
	if !n.Enabled() {
		return
	}
	sub := n.rdb.Subscribe(ctx, channel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in chat subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage([]byte(msg.Payload))
				}()
			}
		}
	}()
}
