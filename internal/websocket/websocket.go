package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// MessageStockSnapshot is the message type carrying a models.StockSnapshot
const MessageStockSnapshot = "stock_snapshot"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// StockReader loads the current snapshot of a product
type StockReader interface {
	GetStock(ctx context.Context, productID int) (models.StockSnapshot, error)
}

// Hub maintains the clients watching each product and fans stock snapshots
// out to them
type Hub struct {
	log        logger.Logger
	stock      StockReader
	clients    map[int]map[*Client]bool
	broadcast  chan models.StockSnapshot
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	productID int
	send      chan models.WSMessage

	// version of the newest snapshot queued for this client, owned by the run loop
	version int64
}

// directMessage is a snapshot for one client only
type directMessage struct {
	client   *Client
	snapshot models.StockSnapshot
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, stock StockReader) *Hub {
	return &Hub{
		log:        log,
		stock:      stock,
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan models.StockSnapshot, 64),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// Stop ends the main loop and disconnects every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mutex.Lock()
			for _, watchers := range h.clients {
				for client := range watchers {
					close(client.send)
				}
			}
			h.clients = make(map[int]map[*Client]bool)
			h.mutex.Unlock()
			h.log.Debug("Stock hub stopped")
			return

		case client := <-h.register:
			h.mutex.Lock()
			watchers, ok := h.clients[client.productID]
			if !ok {
				watchers = make(map[*Client]bool)
				h.clients[client.productID] = watchers
			}
			watchers[client] = true
			h.mutex.Unlock()
			h.log.Debug("Client connected", "product_id", client.productID, "watchers", len(watchers))

			// New clients get the current snapshot without waiting for a change
			go h.sendInitialSnapshot(client)

		case client := <-h.unregister:
			h.remove(client)

		case dm := <-h.direct:
			h.mutex.RLock()
			registered := h.clients[dm.client.productID][dm.client]
			h.mutex.RUnlock()
			if registered {
				h.deliverSnapshot(dm.client, dm.snapshot)
			}

		case snapshot := <-h.broadcast:
			h.mutex.RLock()
			watchers := make([]*Client, 0, len(h.clients[snapshot.ProductID]))
			for client := range h.clients[snapshot.ProductID] {
				watchers = append(watchers, client)
			}
			h.mutex.RUnlock()
			for _, client := range watchers {
				h.deliverSnapshot(client, snapshot)
			}
		}
	}
}

// deliverSnapshot queues a snapshot unless the client was already sent a
// newer version. Equal versions pass so refreshes still reach the client.
// Only the run loop calls it.
func (h *Hub) deliverSnapshot(client *Client, snapshot models.StockSnapshot) {
	if snapshot.Version < client.version {
		h.log.Debug("Skipping stale snapshot", "product_id", client.productID,
			"version", snapshot.Version, "delivered", client.version)
		return
	}
	client.version = snapshot.Version
	h.deliver(client, models.WSMessage{Type: MessageStockSnapshot, Payload: snapshot})
}

// deliver queues a message for a client. Only the run loop calls it.
func (h *Hub) deliver(client *Client, message models.WSMessage) {
	select {
	case client.send <- message:
	default:
		// Client's send channel is full, drop it
		h.log.Debug("Dropping slow client", "product_id", client.productID)
		h.remove(client)
	}
}

// remove unregisters a client and closes its send channel once
func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	watchers := h.clients[client.productID]
	if _, ok := watchers[client]; !ok {
		return
	}
	delete(watchers, client)
	close(client.send)
	if len(watchers) == 0 {
		delete(h.clients, client.productID)
	}
	h.log.Debug("Client disconnected", "product_id", client.productID, "watchers", len(watchers))
}

func (h *Hub) sendInitialSnapshot(client *Client) {
	snapshot, err := h.stock.GetStock(context.Background(), client.productID)
	if err != nil {
		h.log.Warn("Failed to load initial stock", "product_id", client.productID, "error", err)
		return
	}
	select {
	case h.direct <- directMessage{client: client, snapshot: snapshot}:
	case <-h.quit:
	}
}

// BroadcastStock implements services.Broadcaster. It never blocks; when the
// hub is backed up the snapshot is dropped and the next refresh catches up.
func (h *Hub) BroadcastStock(snapshot models.StockSnapshot) {
	select {
	case h.broadcast <- snapshot:
	default:
		h.log.Warn("Stock broadcast dropped", "product_id", snapshot.ProductID)
	}
}

// WatchedProducts returns the IDs of products with at least one client
func (h *Hub) WatchedProducts() []int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	ids := make([]int, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, watchers := range h.clients {
		n += len(watchers)
	}
	return n
}

// StartStockRefresh rebroadcasts the snapshot of every watched product on
// each tick until ctx is cancelled. A non-positive interval disables it.
func (h *Hub) StartStockRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Stock refresh stopped")
			return
		case <-ticker.C:
			h.refresh(ctx)
		}
	}
}

func (h *Hub) refresh(ctx context.Context) {
	for _, id := range h.WatchedProducts() {
		snapshot, err := h.stock.GetStock(ctx, id)
		if err != nil {
			h.log.Debug("Stock refresh failed", "product_id", id, "error", err)
			continue
		}
		h.BroadcastStock(snapshot)
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// The feed is one-way; anything a client sends is only logged
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and subscribes the connection to one product
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, productID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		productID: productID,
		send:      make(chan models.WSMessage, 256),
	}
	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
