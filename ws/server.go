package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"crashsim/config"
	"crashsim/runner"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var (
	clientCount     int64
	clientIDCounter int64
)

// ClientMessage is a request from the client.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is an event pushed to the client.
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// keepalive closes sockets that stop answering. Every read or pong pushes
// the read deadline out by readDeadline; pings go out every pingInterval.
type keepalive struct {
	readDeadline time.Duration
	pingInterval time.Duration
}

var defaultKeepalive = keepalive{
	readDeadline: config.WSReadDeadline,
	pingInterval: config.WSPingInterval,
}

// ClientConnection is one websocket client. It runs at most one simulation
// at a time.
type ClientConnection struct {
	ID        string
	Conn      *websocket.Conn
	limits    runner.Limits
	keepalive keepalive

	writeMutex sync.Mutex // Protects websocket writes

	mu        sync.Mutex
	cancelRun context.CancelFunc // nil when idle
	runs      sync.WaitGroup
}

// ActiveClients returns the number of open simulation sockets.
func ActiveClients() int64 {
	return atomic.LoadInt64(&clientCount)
}

// NewSimulateHandler returns the websocket endpoint streaming batch runs.
func NewSimulateHandler(limits runner.Limits) http.HandlerFunc {
	return newSimulateHandler(limits, defaultKeepalive)
}

func newSimulateHandler(limits runner.Limits, ka keepalive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 Simulation WebSocket connection from:", r.RemoteAddr)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("❌ WebSocket upgrade failed:", err)
			return
		}

		client := &ClientConnection{
			ID:        generateClientID(),
			Conn:      conn,
			limits:    limits,
			keepalive: ka,
		}

		n := atomic.AddInt64(&clientCount, 1)
		log.Printf("🔌 Client %s connected (%d active)", client.ID, n)

		go client.readPump()
	}
}

// writeJSON safely writes JSON to the websocket with mutex protection
func (c *ClientConnection) writeJSON(v interface{}) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	return c.Conn.WriteJSON(v)
}

func (c *ClientConnection) send(msgType string, data interface{}) {
	if err := c.writeJSON(ServerMessage{Type: msgType, Data: data}); err != nil {
		log.Printf("❌ Write error for client %s: %v", c.ID, err)
	}
}

func (c *ClientConnection) sendError(message string) {
	c.send("error", map[string]string{"error": message})
}

// readPump reads client requests until the connection closes, then stops
// any running simulation.
func (c *ClientConnection) readPump() {
	ctx, cancel := context.WithCancel(context.Background())

	defer func() {
		cancel()
		c.runs.Wait()
		c.Conn.Close()
		n := atomic.AddInt64(&clientCount, -1)
		log.Printf("🔌 Client %s disconnected (%d active)", c.ID, n)
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.extendReadDeadline()
	c.Conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})
	go c.pingLoop(ctx)

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ Read error for client %s: %v", c.ID, err)
			}
			break
		}
		c.extendReadDeadline()

		var msg ClientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Printf("❌ Failed to parse message from client %s: %v", c.ID, err)
			c.sendError("invalid message")
			continue
		}

		c.handleMessage(ctx, msg)
	}
}

func (c *ClientConnection) extendReadDeadline() {
	c.Conn.SetReadDeadline(time.Now().Add(c.keepalive.readDeadline))
}

// pingLoop pings the client until ctx is done or a ping cannot be sent.
func (c *ClientConnection) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.keepalive.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(config.WSWriteDeadline)
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming client messages
func (c *ClientConnection) handleMessage(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case "simulate":
		req := runner.DefaultRequest()
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.sendError("invalid simulate request: " + err.Error())
				return
			}
		}
		c.startSimulation(ctx, req)

	case "cancel":
		c.mu.Lock()
		if c.cancelRun != nil {
			c.cancelRun()
		}
		c.mu.Unlock()

	case "ping":
		c.send("pong", nil)

	default:
		c.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func generateClientID() string {
	id := atomic.AddInt64(&clientIDCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().Unix(), id)
}
