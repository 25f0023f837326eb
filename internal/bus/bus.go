// Package bus provides the broadcast bus connecting every server process
// serving the same logical chat. An event published by one process is
// delivered to every subscribed process, including the publisher itself.
package bus

import (
	"context"
	"strings"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

// Handler receives every event delivered to this process's subscription.
type Handler func(types.Event)

// Bus publishes typed events to per-kind channels and delivers events
// from all processes to a single subscriber. Publishing is fire-and-forget:
// a returned error means the event was lost, not that it will be retried.
type Bus interface {
	Publish(ctx context.Context, ev types.Event) error
	Subscribe(ctx context.Context, h Handler) error
	Close() error
}

// DefaultChannelPrefix namespaces the five event channels so unrelated
// deployments can share one redis or NATS instance.
const DefaultChannelPrefix = "chat:"

func channelFor(prefix string, k types.EventKind) string {
	return prefix + string(k)
}

func kindForChannel(prefix, channel string) (types.EventKind, bool) {
	name, ok := strings.CutPrefix(channel, prefix)
	if !ok {
		return "", false
	}
	k := types.EventKind(name)
	return k, k.Valid()
}

func channels(prefix string) []string {
	kinds := types.Kinds()
	chs := make([]string, len(kinds))
	for i, k := range kinds {
		chs[i] = channelFor(prefix, k)
	}
	return chs
}
