package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"monkeybets/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	heartbeatPeriod = 30 * time.Second
	sendBuffer      = 16
)

// Hub upgrades websocket requests and streams feed events to each client.
type Hub struct {
	feed      *Feed
	metrics   *metrics.Metrics
	upgrader  websocket.Upgrader
	heartbeat time.Duration
}

func NewHub(feed *Feed, m *metrics.Metrics, allowedOrigins []string) *Hub {
	return &Hub{
		feed:    feed,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		heartbeat: heartbeatPeriod,
	}
}

type client struct {
	conn      *websocket.Conn
	remote    string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// offer queues a message without blocking. A client whose buffer is full is
// dropped.
func (c *client) offer(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Printf("[Realtime] Dropping slow client remote=%s", c.remote)
		c.close()
	}
}

// ServeHTTP handles GET /ws/changes?tables=props,wagers
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tables := ParseTables(r.URL.Query().Get("tables"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		conn:   conn,
		remote: r.RemoteAddr,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}

	unsubscribe := h.feed.Subscribe(func(ev Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			return
		}
		c.offer(data)
	}, tables...)

	h.metrics.RealtimeClientConnected(1)
	log.Printf("[Realtime] ws connected tables=%v remote=%s", tables, r.RemoteAddr)

	go h.writeLoop(c)
	go func() {
		defer func() {
			unsubscribe()
			c.close()
			h.metrics.RealtimeClientConnected(-1)
		}()
		h.readLoop(c)
	}()
}

func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.heartbeat * 2))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.heartbeat * 2))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Realtime] ws disconnected error=%v", err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.heartbeat)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// ParseTables reads a comma separated table list, keeping known tables only.
// An empty or unknown list means every table.
func ParseTables(raw string) []string {
	known := make(map[string]bool, len(Tables))
	for _, table := range Tables {
		known[table] = true
	}

	var tables []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if known[part] && !seen[part] {
			seen[part] = true
			tables = append(tables, part)
		}
	}
	if len(tables) == 0 {
		return append([]string(nil), Tables...)
	}
	return tables
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(origin, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set[origin] {
			return true
		}
		return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
	}
}
