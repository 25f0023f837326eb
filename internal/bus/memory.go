package bus

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

var ErrBusClosed = errors.New("bus closed")

// MemoryBus is an in-process loopback bus. Each Subscribe registers one
// subscriber, so multiple relays sharing a MemoryBus behave like multiple
// processes sharing a redis instance. Delivery is synchronous and in
// publish order, which single-instance deployments and tests rely on.
type MemoryBus struct {
	log      *log.Logger
	mu       sync.Mutex
	handlers []Handler
	closed   bool
}

func NewMemoryBus(logger *log.Logger) *MemoryBus {
	return &MemoryBus{log: logger}
}

func (b *MemoryBus) Publish(_ context.Context, ev types.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}

	for _, h := range b.handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	b.handlers = append(b.handlers, h)
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = nil
	b.closed = true
	return nil
}
