package relay

import (
	"sync"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

// Tracker is this process's derived view of room membership across every
// process sharing the bus. It has no authority of its own: it only replays
// join/leave events handed to it by the relay, whether they originated
// locally or remotely. Concurrent joins and leaves published by different
// processes may be observed in different orders by different subscribers,
// so views can transiently diverge until the bus drains.
type Tracker struct {
	mu    sync.RWMutex
	rooms map[string]map[string]types.Member
}

func NewTracker() *Tracker {
	return &Tracker{
		rooms: make(map[string]map[string]types.Member),
	}
}

// ApplyJoin adds the (connection, username) tuple to roomId. Re-joining
// is idempotent; it reports whether the tuple was newly added.
func (t *Tracker) ApplyJoin(connId, username, roomId string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomId]
	if !ok {
		members = make(map[string]types.Member)
		t.rooms[roomId] = members
	}

	if _, ok := members[connId]; ok {
		return false
	}
	members[connId] = types.Member{ConnectionId: connId, Username: username}
	return true
}

// ApplyLeave removes the tuple for connId from roomId, dropping the room
// entirely once its membership is empty. No-op if absent.
func (t *Tracker) ApplyLeave(connId, roomId string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomId]
	if !ok {
		return false
	}
	if _, ok := members[connId]; !ok {
		return false
	}

	delete(members, connId)
	if len(members) == 0 {
		delete(t.rooms, roomId)
	}
	return true
}

// ApplyConnectionLeave removes every tuple for connId and returns the
// rooms it was removed from.
func (t *Tracker) ApplyConnectionLeave(connId string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var affected []string
	for roomId, members := range t.rooms {
		if _, ok := members[connId]; !ok {
			continue
		}
		delete(members, connId)
		if len(members) == 0 {
			delete(t.rooms, roomId)
		}
		affected = append(affected, roomId)
	}
	return affected
}

// MembersOf returns a snapshot of roomId's membership.
func (t *Tracker) MembersOf(roomId string) []types.Member {
	t.mu.RLock()
	defer t.mu.RUnlock()

	members := make([]types.Member, 0, len(t.rooms[roomId]))
	for _, m := range t.rooms[roomId] {
		members = append(members, m)
	}
	return members
}

// RoomCount returns the number of rooms with at least one member.
func (t *Tracker) RoomCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
