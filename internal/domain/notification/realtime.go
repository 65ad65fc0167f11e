package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const eventsChannel = "moderation:events"

// Connection represents one reviewer dashboard WebSocket
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans moderation events out to connected reviewer dashboards.
// With Redis configured, events published by one API instance reach
// dashboards connected to any other instance.
type Hub struct {
	connections map[*Connection]bool
	redis       *redis.Client
	pubsub      *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub. redisClient may be nil; the hub then fans out
// to local connections only.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte, 64),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, eventsChannel)
	}

	return h
}

// Dispatch implements Dispatcher. The event goes to Redis when
// available so every instance sees it, otherwise straight to local
// connections.
func (h *Hub) Dispatch(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Name)).Msg("Failed to marshal event")
		return
	}

	if h.redis != nil {
		if err := h.redis.Publish(h.ctx, eventsChannel, payload).Err(); err != nil {
			log.Error().Err(err).Msg("Failed to publish event, falling back to local fan-out")
			h.fanOut(payload)
		}
		return
	}

	h.fanOut(payload)
}

// Run processes connection churn and Redis messages until Shutdown
func (h *Hub) Run() {
	var redisMessages <-chan *redis.Message
	if h.pubsub != nil {
		redisMessages = h.pubsub.Channel()
	}

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case payload := <-h.broadcast:
			h.fanOut(payload)

		case msg, ok := <-redisMessages:
			if !ok {
				redisMessages = nil
				continue
			}
			h.fanOut([]byte(msg.Payload))

		case <-h.ctx.Done():
			return
		}
	}
}

// Register adds a dashboard connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a dashboard connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Shutdown stops the hub and closes all connections
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		close(conn.Send)
		conn.Conn.Close()
		delete(h.connections, conn)
	}
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		select {
		case conn.Send <- payload:
		default:
			// Slow consumer; drop rather than block the hub
			log.Warn().Msg("Dropping event for slow dashboard connection")
		}
	}
}
