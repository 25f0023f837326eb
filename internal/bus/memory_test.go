package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/npezzotti/go-chat-relay/internal/testutil"
	"github.com/npezzotti/go-chat-relay/internal/types"
)

func TestMemoryBus_DeliversToEverySubscriber(t *testing.T) {
	b := NewMemoryBus(testutil.TestLogger(t))
	ctx := context.Background()

	var got1, got2 []types.Event
	assert.NoError(t, b.Subscribe(ctx, func(ev types.Event) { got1 = append(got1, ev) }))
	assert.NoError(t, b.Subscribe(ctx, func(ev types.Event) { got2 = append(got2, ev) }))

	first := types.NewRoomJoinEvent("c1", "alice", "general")
	second := types.NewRoomLeaveEvent("c1", "general")
	assert.NoError(t, b.Publish(ctx, first))
	assert.NoError(t, b.Publish(ctx, second))

	for _, got := range [][]types.Event{got1, got2} {
		assert.Len(t, got, 2, "expected every subscriber to see every event")
		assert.Equal(t, types.EventRoomJoin, got[0].Kind, "expected delivery in publish order")
		assert.Equal(t, types.EventRoomLeave, got[1].Kind)
	}
}

func TestMemoryBus_Close(t *testing.T) {
	b := NewMemoryBus(testutil.TestLogger(t))
	ctx := context.Background()

	var got []types.Event
	assert.NoError(t, b.Subscribe(ctx, func(ev types.Event) { got = append(got, ev) }))
	assert.NoError(t, b.Close())

	err := b.Publish(ctx, types.NewUserJoinEvent("c1"))
	assert.ErrorIs(t, err, ErrBusClosed, "expected publish on closed bus to fail")
	assert.Empty(t, got, "expected no delivery after close")

	err = b.Subscribe(ctx, func(types.Event) {})
	assert.ErrorIs(t, err, ErrBusClosed, "expected subscribe on closed bus to fail")
}
