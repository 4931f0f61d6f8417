package feedsync

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// client abstracts the two transports the hub fans out to.
type client interface {
	send(b []byte) error
	close()
	kind() string
}

type tcpClient struct{ conn net.Conn }

func (c tcpClient) send(b []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.conn.Write(b)
	return err
}

func (c tcpClient) close()       { _ = c.conn.Close() }
func (c tcpClient) kind() string { return "tcp" }

type wsClient struct{ conn *websocket.Conn }

func (c wsClient) send(b []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c wsClient) close()       { _ = c.conn.Close() }
func (c wsClient) kind() string { return "ws" }

// Hub fans feed events out to every connected listener. Events are
// newline-delimited JSON on both transports.
type Hub struct {
	mu      sync.Mutex
	clients map[client]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{clients: make(map[client]struct{})}
}

func (h *Hub) AddTCP(conn net.Conn) {
	h.add(tcpClient{conn: conn})
}

func (h *Hub) RemoveTCP(conn net.Conn) {
	h.remove(tcpClient{conn: conn})
}

func (h *Hub) AddWS(conn *websocket.Conn) {
	h.add(wsClient{conn: conn})
}

func (h *Hub) RemoveWS(conn *websocket.Conn) {
	h.remove(wsClient{conn: conn})
}

func (h *Hub) add(c client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// BroadcastJSON sends v to every client, dropping any that fail to write.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if err := c.send(b); err != nil {
			c.close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var s Stats
	for c := range h.clients {
		if c.kind() == "tcp" {
			s.TCPClients++
		} else {
			s.WSClients++
		}
	}
	return s
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Welcome(conn net.Conn) {
	msg := fmt.Sprintf("{\"type\":\"welcome\",\"message\":\"connected\",\"clients\":%d}\n", h.Count())
	_, _ = conn.Write([]byte(msg))
}
