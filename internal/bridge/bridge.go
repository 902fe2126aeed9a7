// Package bridge connects the engine to the controlled browser page over
// WebSocket. The page owns the DOM; the bridge only transports dispatch
// commands to it and telemetry about the engine's state.
package bridge

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Hub broadcasts commands and telemetry to all connected pages. It
// implements engine.Dispatcher, so a Session can drive connected pages
// directly.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	onViewport func(width, height float64)
}

// New creates a Hub. onViewport, if non-nil, is called when a connected
// page reports its viewport size; it may be invoked from any connection's
// read goroutine.
func New(onViewport func(width, height float64)) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		onViewport: onViewport,
	}
}

// inbound is the only message type pages send: their viewport dimensions,
// on connect and on resize.
type inbound struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "viewport" && h.onViewport != nil && msg.Width > 0 && msg.Height > 0 {
			h.onViewport(msg.Width, msg.Height)
		}
	}
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// send broadcasts one message to every connected page. The write lock
// serializes all writers: the frame pipeline and the fire-and-forget
// evaluate goroutines broadcast through the same hub, and a connection
// permits only one writer at a time. Write errors are ignored; a dead
// connection is reaped by its own read loop.
func (h *Hub) send(msg map[string]any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// MoveCursor pushes the virtual cursor to (x, y) in viewport pixels.
func (h *Hub) MoveCursor(x, y float64) {
	h.send(map[string]any{"type": "move_cursor", "x": x, "y": y})
}

// ClickAt clicks the element under (x, y).
func (h *Hub) ClickAt(x, y float64) {
	h.send(map[string]any{"type": "click_at", "x": x, "y": y})
}

// ScrollBy scrolls the page; positive deltaY scrolls down.
func (h *Hub) ScrollBy(deltaY float64) {
	h.send(map[string]any{"type": "scroll_by", "delta_y": deltaY})
}

// FocusNext advances focus to the next focusable element.
func (h *Hub) FocusNext() {
	h.send(map[string]any{"type": "focus_next"})
}

// FocusPrevious moves focus to the previous focusable element.
func (h *Hub) FocusPrevious() {
	h.send(map[string]any{"type": "focus_previous"})
}

// SetCursorVisible shows or hides the page's virtual cursor overlay.
func (h *Hub) SetCursorVisible(visible bool) {
	h.send(map[string]any{"type": "set_cursor_visible", "visible": visible})
}

// PublishTelemetry broadcasts the engine's current state so pages can
// render mode indicators and debug overlays.
func (h *Hub) PublishTelemetry(mode, label string, cursorX, cursorY float64) {
	h.send(map[string]any{
		"type":      "telemetry",
		"mode":      mode,
		"label":     label,
		"cursor":    map[string]float64{"x": cursorX, "y": cursorY},
		"timestamp": time.Now().UnixMilli(),
	})
}
