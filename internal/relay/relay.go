// Package relay implements the protocol core of the multi-process chat
// relay: per-process connection state, the bus-replicated room membership
// view, and the translation between client commands and bus events.
package relay

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/npezzotti/go-chat-relay/internal/bus"
	"github.com/npezzotti/go-chat-relay/internal/stats"
	"github.com/npezzotti/go-chat-relay/internal/types"
)

const (
	StatActiveConnections = "ActiveConnections"
	StatEventsPublished   = "EventsPublished"
	StatEventsDelivered   = "EventsDelivered"
	StatMessagesRelayed   = "MessagesRelayed"
)

// Pusher delivers one event to a locally connected client. Push must not
// block; it reports false when the event was dropped.
type Pusher interface {
	Push(ev *types.Event) bool
}

// Relay translates inbound client commands into bus publications and bus
// deliveries into pushes to local connections. It is the only mutator of
// the registry and tracker.
type Relay struct {
	log      *log.Logger
	registry *Registry
	tracker  *Tracker
	bus      bus.Bus
	stats    stats.StatsProvider

	pushersLock sync.Mutex
	pushers     map[string]Pusher
}

func NewRelay(logger *log.Logger, reg *Registry, tracker *Tracker, b bus.Bus, su stats.StatsProvider) *Relay {
	su.RegisterMetric(StatActiveConnections)
	su.RegisterMetric(StatEventsPublished)
	su.RegisterMetric(StatEventsDelivered)
	su.RegisterMetric(StatMessagesRelayed)

	return &Relay{
		log:      logger,
		registry: reg,
		tracker:  tracker,
		bus:      b,
		stats:    su,
		pushers:  make(map[string]Pusher),
	}
}

// Start subscribes the relay to the bus. A failed subscription is fatal
// to the process: without it the relay cannot see remote events, so the
// caller must refuse to accept connections.
func (rl *Relay) Start(ctx context.Context) error {
	if err := rl.bus.Subscribe(ctx, rl.HandleDelivery); err != nil {
		return fmt.Errorf("bus subscribe: %w", err)
	}
	return nil
}

// JoinRoom handles a join_room command from connId. The registry is
// updated before publishing so a publish failure leaves local state ahead
// of the bus, the accepted lossy trade-off.
func (rl *Relay) JoinRoom(connId, roomId, username string) error {
	if err := rl.registry.SetUsername(connId, username); err != nil {
		return err
	}
	if err := rl.registry.AddRoom(connId, roomId); err != nil {
		return err
	}

	return rl.publish(types.NewRoomJoinEvent(connId, username, roomId))
}

// LeaveRoom handles a leave_room command from connId.
func (rl *Relay) LeaveRoom(connId, roomId string) error {
	if err := rl.registry.RemoveRoom(connId, roomId); err != nil {
		return err
	}

	return rl.publish(types.NewRoomLeaveEvent(connId, roomId))
}

// SendMessage handles a message command from connId. No registry or
// tracker state changes; the message exists only in flight.
func (rl *Relay) SendMessage(connId, roomId, body string) error {
	state, err := rl.registry.Get(connId)
	if err != nil {
		return err
	}

	return rl.publish(types.NewMessageEvent(connId, roomId, body, state.Username))
}

// HandleDelivery is the bus subscriber callback. Tracker mutations are
// applied before pushing so a joining connection sees its own join and a
// leaving connection does not see its own leave.
func (rl *Relay) HandleDelivery(ev types.Event) {
	rl.stats.Incr(StatEventsDelivered)

	switch ev.Kind {
	case types.EventRoomJoin:
		rl.tracker.ApplyJoin(ev.ConnectionId, ev.Username, ev.RoomId)
		rl.pushToRoom(ev.RoomId, &ev)
	case types.EventRoomLeave:
		rl.tracker.ApplyLeave(ev.ConnectionId, ev.RoomId)
		rl.pushToRoom(ev.RoomId, &ev)
	case types.EventMessage:
		rl.stats.Incr(StatMessagesRelayed)
		rl.pushToRoom(ev.RoomId, &ev)
	case types.EventUserJoin:
		rl.pushToAll(&ev)
	case types.EventUserLeave:
		rl.tracker.ApplyConnectionLeave(ev.ConnectionId)
		rl.pushToAll(&ev)
	default:
		rl.log.Printf("dropping event with unknown kind %q", ev.Kind)
	}
}

func (rl *Relay) publish(ev types.Event) error {
	if err := rl.bus.Publish(context.Background(), ev); err != nil {
		rl.log.Printf("publish %s: %v", ev.Kind, err)
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}

	rl.stats.Incr(StatEventsPublished)
	return nil
}

// pushToRoom delivers ev to every local connection that is currently a
// member of roomId according to the tracker.
func (rl *Relay) pushToRoom(roomId string, ev *types.Event) {
	members := rl.tracker.MembersOf(roomId)

	rl.pushersLock.Lock()
	defer rl.pushersLock.Unlock()

	for _, m := range members {
		p, ok := rl.pushers[m.ConnectionId]
		if !ok {
			// connected to another process
			continue
		}
		if !p.Push(ev) {
			rl.log.Printf("dropped %s event for connection %q", ev.Kind, m.ConnectionId)
		}
	}
}

func (rl *Relay) pushToAll(ev *types.Event) {
	rl.pushersLock.Lock()
	defer rl.pushersLock.Unlock()

	for connId, p := range rl.pushers {
		if !p.Push(ev) {
			rl.log.Printf("dropped %s event for connection %q", ev.Kind, connId)
		}
	}
}

func (rl *Relay) addPusher(connId string, p Pusher) {
	rl.pushersLock.Lock()
	defer rl.pushersLock.Unlock()
	rl.pushers[connId] = p
}

func (rl *Relay) removePusher(connId string) {
	rl.pushersLock.Lock()
	defer rl.pushersLock.Unlock()
	delete(rl.pushers, connId)
}
