package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snake/engine"
	"github.com/brensch/snake/game"
	"github.com/brensch/snake/rules"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Controller is the part of engine.Loop the browser drives.
type Controller interface {
	SetDirection(game.Direction) bool
	TogglePause() bool
	ChangeColor() string
	Reset()
	Snapshot() engine.Frame
}

// Hub fans loop output out to every connected browser and feeds browser
// input back into the loop. It implements the engine collaborators.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	ctrl    Controller
	clients map[*client]struct{}
	closed  bool
}

var (
	_ engine.Renderer     = (*Hub)(nil)
	_ engine.ScoreDisplay = (*Hub)(nil)
	_ engine.Notifier     = (*Hub)(nil)
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]struct{}),
	}
}

// Attach sets the loop that client input is sent to.
func (h *Hub) Attach(ctrl Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctrl = ctrl
}

func (h *Hub) controller() Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl
}

func (h *Hub) Render(f engine.Frame) {
	h.broadcast(ServerMessage{Type: TypeFrame, Frame: frameToJSON(f), Score: f.Score})
}

func (h *Hub) ShowScore(score int) {
	h.broadcast(ServerMessage{Type: TypeScore, Score: score})
}

func (h *Hub) GameOver(score int) {
	h.broadcast(ServerMessage{Type: TypeGameOver, Score: score})
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) broadcast(msg ServerMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode message", "type", msg.Type, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			// The loop never waits on a browser.
			h.logger.Warn("dropping slow client", "addr", c.addr)
			h.removeLocked(c)
		}
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// ServeHTTP upgrades the request and serves one client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), addr: r.RemoteAddr}

	// Queue the current frame before the client becomes visible to
	// broadcasts, so the channel cannot have been closed yet.
	if ctrl := h.controller(); ctrl != nil {
		f := ctrl.Snapshot()
		if b, err := json.Marshal(ServerMessage{Type: TypeFrame, Frame: frameToJSON(f), Score: f.Score}); err == nil {
			c.send <- b
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected", "addr", c.addr, "clients", n)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.logger.Info("client disconnected", "addr", c.addr)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", "addr", c.addr, "err", err)
			}
			return
		}
		h.dispatch(c, msg)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.logger.Warn("websocket write", "addr", c.addr, "err", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch applies one input message. Unknown or malformed input is dropped.
func (h *Hub) dispatch(c *client, msg ClientMessage) {
	ctrl := h.controller()
	if ctrl == nil {
		return
	}

	switch msg.Type {
	case TypeDirection:
		d, ok := rules.ParseDirection(msg.Dir)
		if !ok {
			h.logger.Debug("ignoring direction", "addr", c.addr, "dir", msg.Dir)
			return
		}
		ctrl.SetDirection(d)
	case TypePause:
		ctrl.TogglePause()
	case TypeColor:
		ctrl.ChangeColor()
	case TypeReset:
		if ctrl.Snapshot().Phase != engine.PhaseGameOver {
			h.logger.Debug("ignoring reset during play", "addr", c.addr)
			return
		}
		ctrl.Reset()
	default:
		h.logger.Debug("ignoring message", "addr", c.addr, "type", msg.Type)
	}
}
