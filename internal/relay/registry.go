package relay

import (
	"log"
	"sync"
)

// ConnectionState is the per-process record for one live connection.
// It is owned exclusively by the process that accepted the connection.
type ConnectionState struct {
	Id       string
	Username string
	rooms    map[string]struct{}
}

// Rooms returns the room ids the connection is currently joined to.
func (cs *ConnectionState) Rooms() []string {
	rooms := make([]string, 0, len(cs.rooms))
	for id := range cs.rooms {
		rooms = append(rooms, id)
	}
	return rooms
}

// Registry maps connection ids to connection state for the connections
// accepted by this process. It never touches the broadcast bus.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*ConnectionState
	log   *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		conns: make(map[string]*ConnectionState),
		log:   logger,
	}
}

// Register creates a fresh, unjoined record for id. If the id is already
// registered the old record is replaced and ErrDuplicateConnection is
// returned alongside the new record.
func (r *Registry) Register(id string) (*ConnectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.conns[id]
	state := &ConnectionState{
		Id:    id,
		rooms: make(map[string]struct{}),
	}
	r.conns[id] = state

	if exists {
		r.log.Printf("connection %q already registered, replacing record", id)
		return state, ErrDuplicateConnection
	}
	return state, nil
}

func (r *Registry) SetUsername(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	state.Username = username
	return nil
}

// Get returns a copy of the connection's identity fields.
func (r *Registry) Get(id string) (ConnectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.conns[id]
	if !ok {
		return ConnectionState{}, ErrUnknownConnection
	}
	return ConnectionState{Id: state.Id, Username: state.Username}, nil
}

// AddRoom records the connection as joined to roomId. Idempotent.
func (r *Registry) AddRoom(id, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	state.rooms[roomId] = struct{}{}
	return nil
}

// RemoveRoom clears the connection's membership in roomId. Idempotent.
func (r *Registry) RemoveRoom(id, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	delete(state.rooms, roomId)
	return nil
}

// Unregister atomically removes the record for id and returns the rooms
// the connection was joined to, so the caller can emit one leave event
// per room.
func (r *Registry) Unregister(id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.conns[id]
	if !ok {
		return nil, ErrUnknownConnection
	}
	delete(r.conns, id)
	return state.Rooms(), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
