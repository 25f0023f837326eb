package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

func TestTracker_ApplyJoinIdempotent(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.ApplyJoin("c1", "alice", "general"), "expected first join to add the tuple")
	assert.False(t, tr.ApplyJoin("c1", "alice", "general"), "expected re-join to be a no-op")

	members := tr.MembersOf("general")
	assert.Len(t, members, 1, "expected a single membership tuple after duplicate joins")
	assert.Equal(t, types.Member{ConnectionId: "c1", Username: "alice"}, members[0])
}

func TestTracker_ApplyLeave(t *testing.T) {
	t.Run("leave clears membership", func(t *testing.T) {
		tr := NewTracker()

		tr.ApplyJoin("c1", "alice", "general")
		assert.True(t, tr.ApplyLeave("c1", "general"), "expected leave to remove the tuple")
		assert.Empty(t, tr.MembersOf("general"), "expected no members after leave")
		assert.Equal(t, 0, tr.RoomCount(), "expected empty room to disappear")
	})

	t.Run("leave of absent tuple is a no-op", func(t *testing.T) {
		tr := NewTracker()

		assert.False(t, tr.ApplyLeave("c1", "general"))

		tr.ApplyJoin("c2", "bob", "general")
		assert.False(t, tr.ApplyLeave("c1", "general"), "expected leave for non-member to be a no-op")
		assert.Len(t, tr.MembersOf("general"), 1, "expected other members to be untouched")
	})
}

func TestTracker_ApplyConnectionLeave(t *testing.T) {
	tr := NewTracker()

	tr.ApplyJoin("c1", "alice", "general")
	tr.ApplyJoin("c1", "alice", "tech")
	tr.ApplyJoin("c1", "alice", "random")
	tr.ApplyJoin("c2", "bob", "general")

	affected := tr.ApplyConnectionLeave("c1")
	assert.ElementsMatch(t, []string{"general", "tech", "random"}, affected,
		"expected every joined room to be affected")

	assert.NotContains(t, tr.MembersOf("general"), types.Member{ConnectionId: "c1", Username: "alice"})
	assert.Empty(t, tr.MembersOf("tech"))
	assert.Empty(t, tr.MembersOf("random"))
	assert.Len(t, tr.MembersOf("general"), 1, "expected remaining member to survive")
	assert.Equal(t, 1, tr.RoomCount(), "expected emptied rooms to disappear")

	assert.Empty(t, tr.ApplyConnectionLeave("c1"), "expected second connection leave to affect nothing")
}

func TestTracker_MembersOfSnapshot(t *testing.T) {
	tr := NewTracker()

	tr.ApplyJoin("c1", "alice", "general")

	members := tr.MembersOf("general")
	members[0].Username = "mallory"

	assert.Equal(t, "alice", tr.MembersOf("general")[0].Username,
		"expected MembersOf to return a copy")
	assert.Empty(t, tr.MembersOf("missing"), "expected unknown room to have no members")
}
