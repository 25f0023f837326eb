// Package server is the websocket transport collaborator: it accepts
// connections, decodes client commands for the relay and pushes relay
// events back out. It holds no chat state of its own.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/npezzotti/go-chat-relay/internal/relay"
)

type Server struct {
	log      *log.Logger
	relay    *relay.Relay
	upgrader websocket.Upgrader

	clientsLock sync.Mutex
	clients     map[*Client]struct{}
	accepting   bool
}

func NewServer(logger *log.Logger, rl *relay.Relay, allowedOrigins []string) *Server {
	s := &Server{
		log:     logger,
		relay:   rl,
		clients: make(map[*Client]struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return s
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(r *http.Request) bool { return true }
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// Start marks the server ready to accept connections. It must only be
// called once the relay's bus subscription is established.
func (s *Server) Start() {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	s.accepting = true
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	s.clientsLock.Lock()
	accepting := s.accepting
	s.clientsLock.Unlock()
	if !accepting {
		http.Error(w, "server not accepting connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("upgrade:", err)
		return
	}

	client := NewClient(conn, s.relay, s, s.log)
	s.addClient(client)

	connId, err := s.relay.Connect(client)
	if err != nil {
		s.log.Println("connect:", err)
		s.removeClient(client)
		conn.Close()
		return
	}
	client.connId = connId

	go client.Write()
	go client.Read()
}

func (s *Server) addClient(c *Client) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) removeClient(c *Client) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	delete(s.clients, c)
}

func (s *Server) clientCount() int {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	return len(s.clients)
}

// Shutdown stops accepting connections and closes every live client,
// waiting for their read pumps to finish cleanup or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.clientsLock.Lock()
	s.accepting = false
	for c := range s.clients {
		c.stopClient()
		c.conn.Close()
	}
	s.clientsLock.Unlock()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.clientCount() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
