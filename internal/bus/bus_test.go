package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

func TestChannelMapping(t *testing.T) {
	t.Run("round trips every kind", func(t *testing.T) {
		for _, kind := range types.Kinds() {
			ch := channelFor(DefaultChannelPrefix, kind)
			got, ok := kindForChannel(DefaultChannelPrefix, ch)
			assert.True(t, ok, "expected channel %q to map back to a kind", ch)
			assert.Equal(t, kind, got)
		}
	})

	t.Run("rejects unknown channel names", func(t *testing.T) {
		_, ok := kindForChannel(DefaultChannelPrefix, DefaultChannelPrefix+"presence")
		assert.False(t, ok, "expected unknown event name to be rejected")
	})

	t.Run("rejects foreign prefixes", func(t *testing.T) {
		_, ok := kindForChannel(DefaultChannelPrefix, "other:message")
		assert.False(t, ok, "expected channel with foreign prefix to be rejected")
	})
}

func TestChannels(t *testing.T) {
	chs := channels("test:")
	assert.Len(t, chs, 5, "expected one channel per event kind")
	assert.Contains(t, chs, "test:message")
	assert.Contains(t, chs, "test:user_join")
	assert.Contains(t, chs, "test:user_leave")
	assert.Contains(t, chs, "test:room_join")
	assert.Contains(t, chs, "test:room_leave")
}
