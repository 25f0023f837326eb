package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/npezzotti/go-chat-relay/internal/relay"
	"github.com/npezzotti/go-chat-relay/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client pumps one websocket connection: inbound frames become relay
// commands, relay pushes become outbound frames.
type Client struct {
	conn   *websocket.Conn
	relay  *relay.Relay
	server *Server
	log    *log.Logger
	connId string
	send   chan *ServerEvent
	stop   chan struct{}
}

func NewClient(conn *websocket.Conn, rl *relay.Relay, srv *Server, l *log.Logger) *Client {
	return &Client{
		conn:   conn,
		relay:  rl,
		server: srv,
		log:    l,
		send:   make(chan *ServerEvent, 256),
		stop:   make(chan struct{}),
	}
}

// Push implements relay.Pusher. It queues without blocking; a full send
// channel drops the event.
func (c *Client) Push(ev *types.Event) bool {
	return c.queueMessage(NewServerEvent(ev))
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(msg)
			if err != nil {
				c.log.Println("failed to serialize event:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var cmd ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.log.Println("error parsing command:", err)
			c.queueMessage(ErrInvalidCommand("invalid command format"))
			continue
		}

		c.dispatch(&cmd)
	}
}

// dispatch validates the command and hands it to the relay. Commands
// arriving for an unknown connection are dropped without publishing.
func (c *Client) dispatch(cmd *ClientCommand) {
	if err := cmd.Validate(); err != nil {
		c.log.Printf("rejected command from %q: %v", c.connId, err)
		c.queueMessage(ErrInvalidCommand(err.Error()))
		return
	}

	var err error
	switch {
	case cmd.Join != nil:
		err = c.relay.JoinRoom(c.connId, cmd.Join.RoomId, cmd.Join.Username)
	case cmd.Leave != nil:
		err = c.relay.LeaveRoom(c.connId, cmd.Leave.RoomId)
	case cmd.Message != nil:
		err = c.relay.SendMessage(c.connId, cmd.Message.RoomId, cmd.Message.Body)
	}

	if err != nil {
		c.log.Printf("command from %q: %v", c.connId, err)
	}
}

func (c *Client) queueMessage(msg *ServerEvent) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Println("failed to send event to client, channel is full")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

func (c *Client) cleanup() {
	c.relay.Disconnect(c.connId)
	c.server.removeClient(c)
	c.stopClient()
}
