// Package ws implements the WebSocket fan-out hub for dashboard clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	arbitrageApp "github.com/fd1az/defi-agents/business/arbitrage/app"
	arbitrageDomain "github.com/fd1az/defi-agents/business/arbitrage/domain"
	gatewayApp "github.com/fd1az/defi-agents/business/gateway/app"
	"github.com/fd1az/defi-agents/internal/logger"
)

const (
	// writeTimeout bounds a single frame write per client.
	writeTimeout = 5 * time.Second

	// sendBuffer is the per-client outbound queue. A client that falls
	// this far behind is disconnected rather than backpressuring the
	// pipeline.
	sendBuffer = 64
)

// envelope is the wire frame: {"type": "...", "data": ...}.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// done is closed exactly once by drop. The send channel is never
	// closed: broadcasters queue into it without holding any lock, and
	// closing it would race them into a panic.
	done chan struct{}
}

// Hub accepts dashboard WebSocket connections and fans lifecycle
// events out to them. It implements the controller's event sink, so
// every event the pipeline emits reaches every connected client.
type Hub struct {
	logger logger.LoggerInterface

	mu      sync.RWMutex
	clients map[*client]struct{}

	// lastStats is replayed to newly connected clients so dashboards
	// render immediately instead of waiting for the next scan.
	statsMu   sync.RWMutex
	lastStats *arbitrageDomain.StatsSnapshot
}

// NewHub creates an empty hub.
func NewHub(log logger.LoggerInterface) *Hub {
	return &Hub{
		logger:  log,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", "error", err)
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info(r.Context(), "dashboard client connected", "clients", count)

	h.replayStats(cl)

	go h.writeLoop(cl)
	h.readLoop(r.Context(), cl)
}

// replayStats queues the most recent stats frame for a new client.
func (h *Hub) replayStats(cl *client) {
	h.statsMu.RLock()
	stats := h.lastStats
	h.statsMu.RUnlock()
	if stats == nil {
		return
	}
	if payload, err := json.Marshal(envelope{Type: "statsUpdate", Data: *stats}); err == nil {
		select {
		case cl.send <- payload:
		default:
		}
	}
}

// writeLoop drains the client's queue until the client is dropped.
func (h *Hub) writeLoop(cl *client) {
	for {
		select {
		case <-cl.done:
			return
		case payload := <-cl.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := cl.conn.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

// readLoop discards inbound frames; the protocol is one-directional.
// Reading is still required to process control frames and notice
// disconnects.
func (h *Hub) readLoop(ctx context.Context, cl *client) {
	for {
		if _, _, err := cl.conn.Read(ctx); err != nil {
			h.drop(cl)
			return
		}
	}
}

// drop detaches a client. The membership check makes it idempotent;
// the close handshake runs off the caller's goroutine so a
// broadcasting caller never waits on it.
func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl)
	count := len(h.clients)
	h.mu.Unlock()

	close(cl.done)
	go cl.conn.Close(websocket.StatusNormalClosure, "")
	h.logger.Info(context.Background(), "dashboard client disconnected", "clients", count)
}

// broadcast marshals one frame and queues it for every client. Clients
// with full queues are dropped.
func (h *Hub) broadcast(frameType string, data any) {
	payload, err := json.Marshal(envelope{Type: frameType, Data: data})
	if err != nil {
		h.logger.Error(context.Background(), "failed to marshal ws frame", "type", frameType, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		select {
		case cl.send <- payload:
		default:
			h.drop(cl)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, cl := range clients {
		close(cl.done)
		cl.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Event sink implementation. The controller calls these from its
// command loop; none of them block.

func (h *Hub) AgentStatus(status arbitrageDomain.AgentStatus) {
	h.broadcast("agentStatus", status)
}

func (h *Hub) OpportunityDetected(opp *arbitrageDomain.Opportunity) {
	h.broadcast("opportunityDetected", gatewayApp.NewOpportunityView(opp))
}

func (h *Hub) OpportunityUpdated(opp *arbitrageDomain.Opportunity) {
	h.broadcast("opportunityUpdate", map[string]string{
		"id":     opp.ID,
		"status": string(opp.Status),
	})
}

func (h *Hub) ApprovalRequired(opp *arbitrageDomain.Opportunity) {
	h.broadcast("approvalRequired", gatewayApp.NewOpportunityView(opp))
}

func (h *Hub) StatsUpdated(stats arbitrageDomain.StatsSnapshot) {
	h.statsMu.Lock()
	h.lastStats = &stats
	h.statsMu.Unlock()
	h.broadcast("statsUpdate", stats)
}

func (h *Hub) ScanProgress(done, total int, nextScanIn time.Duration) {
	h.broadcast("scanProgress", map[string]any{
		"pairsScanned": done,
		"totalPairs":   total,
		"nextScanIn":   int(nextScanIn / time.Second),
	})
}

func (h *Hub) Activity(rec arbitrageDomain.ActivityRecord) {
	h.broadcast("agentActivity", rec)
}

var _ arbitrageApp.EventSink = (*Hub)(nil)
