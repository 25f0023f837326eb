package types

import (
	"time"
)

// EventKind tags the five event variants carried by the broadcast bus.
type EventKind string

const (
	EventMessage   EventKind = "message"
	EventUserJoin  EventKind = "user_join"
	EventUserLeave EventKind = "user_leave"
	EventRoomJoin  EventKind = "room_join"
	EventRoomLeave EventKind = "room_leave"
)

// Kinds returns every event kind, in a fixed order.
func Kinds() []EventKind {
	return []EventKind{
		EventMessage,
		EventUserJoin,
		EventUserLeave,
		EventRoomJoin,
		EventRoomLeave,
	}
}

// Global reports whether the kind is delivered to every connection
// rather than scoped to a room.
func (k EventKind) Global() bool {
	return k == EventUserJoin || k == EventUserLeave
}

func (k EventKind) Valid() bool {
	switch k {
	case EventMessage, EventUserJoin, EventUserLeave, EventRoomJoin, EventRoomLeave:
		return true
	}
	return false
}

// Event is the immutable wire-level unit carried by the broadcast bus.
// Kind is implied by the channel an event travels on and is not part of
// the serialized payload.
type Event struct {
	Kind         EventKind `json:"-"`
	ConnectionId string    `json:"connection_id"`
	Username     string    `json:"username,omitempty"`
	RoomId       string    `json:"room_id,omitempty"`
	Body         string    `json:"body,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Member is one (connection, username) pair in a room, as observed by a
// single process.
type Member struct {
	ConnectionId string `json:"connection_id"`
	Username     string `json:"username"`
}

func NewMessageEvent(connId, roomId, body, username string) Event {
	return Event{
		Kind:         EventMessage,
		ConnectionId: connId,
		RoomId:       roomId,
		Body:         body,
		Username:     username,
		Timestamp:    Now(),
	}
}

func NewUserJoinEvent(connId string) Event {
	return Event{
		Kind:         EventUserJoin,
		ConnectionId: connId,
		Timestamp:    Now(),
	}
}

func NewUserLeaveEvent(connId string) Event {
	return Event{
		Kind:         EventUserLeave,
		ConnectionId: connId,
		Timestamp:    Now(),
	}
}

func NewRoomJoinEvent(connId, username, roomId string) Event {
	return Event{
		Kind:         EventRoomJoin,
		ConnectionId: connId,
		Username:     username,
		RoomId:       roomId,
		Timestamp:    Now(),
	}
}

func NewRoomLeaveEvent(connId, roomId string) Event {
	return Event{
		Kind:         EventRoomLeave,
		ConnectionId: connId,
		RoomId:       roomId,
		Timestamp:    Now(),
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
