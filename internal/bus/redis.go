package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

const redisDialTimeout = 5 * time.Second

// RedisBus carries events over redis pub/sub, one channel per event kind.
// Redis delivers published messages to every subscriber including the
// publishing process, which the relay relies on for self-delivery.
type RedisBus struct {
	log    *log.Logger
	client *redis.Client
	prefix string
	pubsub *redis.PubSub
}

func NewRedisBus(logger *log.Logger, addr, prefix string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: redisDialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		log:    logger,
		client: client,
		prefix: prefix,
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, ev types.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, channelFor(b.prefix, ev.Kind), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe joins the five event channels and starts a goroutine feeding
// delivered events to h in delivery order. It returns an error if the
// subscription cannot be confirmed, in which case the process must not
// accept connections.
func (b *RedisBus) Subscribe(ctx context.Context, h Handler) error {
	pubsub := b.client.Subscribe(ctx, channels(b.prefix)...)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	b.pubsub = pubsub

	go func() {
		for msg := range pubsub.Channel() {
			kind, ok := kindForChannel(b.prefix, msg.Channel)
			if !ok {
				b.log.Printf("message on unknown channel %q", msg.Channel)
				continue
			}

			var ev types.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Printf("unmarshal event on %q: %v", msg.Channel, err)
				continue
			}
			ev.Kind = kind
			h(ev)
		}
	}()

	return nil
}

// Close unsubscribes before closing the client so no further deliveries
// are attempted once the process stops pushing to local connections.
func (b *RedisBus) Close() error {
	if b.pubsub != nil {
		if err := b.pubsub.Unsubscribe(context.Background()); err != nil {
			b.log.Printf("redis unsubscribe: %v", err)
		}
		if err := b.pubsub.Close(); err != nil {
			b.log.Printf("redis pubsub close: %v", err)
		}
	}
	return b.client.Close()
}
