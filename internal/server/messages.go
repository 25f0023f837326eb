package server

import (
	"fmt"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

// ClientCommand is the inbound envelope; exactly one variant is set.
type ClientCommand struct {
	Join    *JoinRoom    `json:"join_room,omitempty"`
	Leave   *LeaveRoom   `json:"leave_room,omitempty"`
	Message *SendMessage `json:"message,omitempty"`
}

type JoinRoom struct {
	RoomId   string `json:"room_id"`
	Username string `json:"username"`
}

type LeaveRoom struct {
	RoomId string `json:"room_id"`
}

type SendMessage struct {
	RoomId string `json:"room_id"`
	Body   string `json:"body"`
}

// Validate rejects envelopes with zero or multiple variants, or variants
// missing required fields. Rejected commands mutate no state and publish
// no event.
func (c *ClientCommand) Validate() error {
	var set int
	if c.Join != nil {
		set++
	}
	if c.Leave != nil {
		set++
	}
	if c.Message != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("expected exactly one command, got %d", set)
	}

	switch {
	case c.Join != nil:
		if c.Join.RoomId == "" {
			return fmt.Errorf("join_room: room_id is required")
		}
		if c.Join.Username == "" {
			return fmt.Errorf("join_room: username is required")
		}
	case c.Leave != nil:
		if c.Leave.RoomId == "" {
			return fmt.Errorf("leave_room: room_id is required")
		}
	case c.Message != nil:
		if c.Message.RoomId == "" {
			return fmt.Errorf("message: room_id is required")
		}
		if c.Message.Body == "" {
			return fmt.Errorf("message: body is required")
		}
	}

	return nil
}

// ServerEvent is the outbound envelope pushed to clients.
type ServerEvent struct {
	Event string       `json:"event"`
	Data  *types.Event `json:"data,omitempty"`
	Error string       `json:"error,omitempty"`
}

func NewServerEvent(ev *types.Event) *ServerEvent {
	return &ServerEvent{
		Event: string(ev.Kind),
		Data:  ev,
	}
}

func ErrInvalidCommand(reason string) *ServerEvent {
	return &ServerEvent{
		Event: "error",
		Error: reason,
	}
}
