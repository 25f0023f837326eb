package relay

import (
	"fmt"

	"github.com/teris-io/shortid"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

// Connect opens a session for a newly accepted connection: it assigns the
// connection id, registers it, attaches the pusher for local delivery and
// announces presence globally.
func (rl *Relay) Connect(p Pusher) (string, error) {
	connId, err := shortid.Generate()
	if err != nil {
		return "", fmt.Errorf("generate connection id: %w", err)
	}

	if _, err := rl.registry.Register(connId); err != nil {
		// duplicate ids should not occur given transport guarantees;
		// the registry has already replaced the stale record
		rl.log.Printf("register %q: %v", connId, err)
	}
	rl.addPusher(connId, p)
	rl.stats.Incr(StatActiveConnections)

	rl.log.Printf("connection %q opened", connId)
	rl.publish(types.NewUserJoinEvent(connId))

	return connId, nil
}

// Disconnect closes the session: the pusher is detached, the registry
// record cleared, and one room_leave per joined room is published so
// remote trackers converge, followed by the global user_leave.
func (rl *Relay) Disconnect(connId string) {
	rl.removePusher(connId)

	rooms, err := rl.registry.Unregister(connId)
	if err != nil {
		rl.log.Printf("unregister %q: %v", connId, err)
		return
	}
	rl.stats.Decr(StatActiveConnections)

	for _, roomId := range rooms {
		rl.publish(types.NewRoomLeaveEvent(connId, roomId))
	}
	rl.publish(types.NewUserLeaveEvent(connId))

	rl.log.Printf("connection %q closed, left rooms: %v", connId, rooms)
}
