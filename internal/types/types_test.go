package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKind_Global(t *testing.T) {
	assert.True(t, EventUserJoin.Global())
	assert.True(t, EventUserLeave.Global())
	assert.False(t, EventMessage.Global())
	assert.False(t, EventRoomJoin.Global())
	assert.False(t, EventRoomLeave.Global())
}

func TestEventKind_Valid(t *testing.T) {
	for _, kind := range Kinds() {
		assert.True(t, kind.Valid(), "expected kind %q to be valid", kind)
	}
	assert.False(t, EventKind("presence").Valid())
}

func TestEventConstructors(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		ev := NewMessageEvent("c1", "general", "hi", "alice")
		assert.Equal(t, EventMessage, ev.Kind)
		assert.Equal(t, "c1", ev.ConnectionId)
		assert.Equal(t, "general", ev.RoomId)
		assert.Equal(t, "hi", ev.Body)
		assert.Equal(t, "alice", ev.Username)
		assert.False(t, ev.Timestamp.IsZero(), "expected timestamp to be stamped")
	})

	t.Run("room join", func(t *testing.T) {
		ev := NewRoomJoinEvent("c1", "alice", "general")
		assert.Equal(t, EventRoomJoin, ev.Kind)
		assert.Equal(t, "alice", ev.Username)
		assert.Equal(t, "general", ev.RoomId)
	})

	t.Run("global presence", func(t *testing.T) {
		join := NewUserJoinEvent("c1")
		assert.Equal(t, EventUserJoin, join.Kind)
		assert.Empty(t, join.RoomId, "expected global events to carry no room")

		leave := NewUserLeaveEvent("c1")
		assert.Equal(t, EventUserLeave, leave.Kind)
		assert.Equal(t, "c1", leave.ConnectionId)
	})
}
