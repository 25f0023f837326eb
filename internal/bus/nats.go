package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

// NATSBus carries events over NATS subjects, one per event kind. NATS
// echoes publications back to subscriptions on the same connection, so
// self-delivery holds without extra work.
type NATSBus struct {
	log    *log.Logger
	conn   *nats.Conn
	prefix string
	subs   []*nats.Subscription
}

func NewNATSBus(logger *log.Logger, url, prefix string) (*NATSBus, error) {
	conn, err := nats.Connect(url, nats.Name("chat-relay"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &NATSBus{
		log:    logger,
		conn:   conn,
		prefix: prefix,
	}, nil
}

func (b *NATSBus) Publish(_ context.Context, ev types.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.conn.Publish(channelFor(b.prefix, ev.Kind), payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (b *NATSBus) Subscribe(_ context.Context, h Handler) error {
	for _, kind := range types.Kinds() {
		kind := kind
		subject := channelFor(b.prefix, kind)
		sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
			var ev types.Event
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				b.log.Printf("unmarshal event on %q: %v", msg.Subject, err)
				return
			}
			ev.Kind = kind
			h(ev)
		})
		if err != nil {
			b.unsubscribeAll()
			return fmt.Errorf("nats subscribe %q: %w", subject, err)
		}
		b.subs = append(b.subs, sub)
	}

	if err := b.conn.Flush(); err != nil {
		b.unsubscribeAll()
		return fmt.Errorf("nats flush: %w", err)
	}
	return nil
}

func (b *NATSBus) unsubscribeAll() {
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Printf("nats unsubscribe %q: %v", sub.Subject, err)
		}
	}
	b.subs = nil
}

func (b *NATSBus) Close() error {
	b.unsubscribeAll()
	b.conn.Close()
	return nil
}
