// Package realtime fans out board change events over redis pub/sub. Every
// mutating card operation publishes; each board view subscribes and feeds
// the events into its merge reducer.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"boardsync/internal/kanban"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "board:"

type Bus struct {
	client *redis.Client
	logger *log.Logger
}

// NewBus connects to redis and verifies the connection.
func NewBus(redisURL string, logger *log.Logger) (*Bus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewBusWithClient(client, logger), nil
}

// NewBusWithClient creates a bus from an existing redis client.
func NewBusWithClient(client *redis.Client, logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{client: client, logger: logger}
}

func channelFor(boardID uuid.UUID) string {
	return channelPrefix + boardID.String()
}

// Publish sends one change event to every subscriber of the board.
func (b *Bus) Publish(ctx context.Context, boardID uuid.UUID, ev kanban.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channelFor(boardID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe delivers the board's change events to fn on a dedicated
// goroutine until the returned handle is called. Payloads that do not
// decode are logged and skipped; a broken message must never take the
// subscription down.
func (b *Bus) Subscribe(ctx context.Context, boardID uuid.UUID, fn func(kanban.Event)) (func() error, error) {
	sub := b.client.Subscribe(ctx, channelFor(boardID))

	// Force the subscription onto the wire before returning so callers
	// never miss events published right after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to board %s: %w", boardID, err)
	}

	go func() {
		for msg := range sub.Channel() {
			var ev kanban.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Printf("realtime: dropping undecodable event on %s: %v", msg.Channel, err)
				continue
			}
			fn(ev)
		}
	}()

	return sub.Close, nil
}

// Close closes the underlying redis connection.
func (b *Bus) Close() error {
	return b.client.Close()
}

// Ping checks if redis is reachable.
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
