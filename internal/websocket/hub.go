package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/service"

	"github.com/redis/go-redis/v9"
)

// Outbound frame types.
const (
	frameTypeChunk          = "chunk"
	frameTypeDone           = "done"
	frameTypeError          = "error"
	frameTypeSessionCleared = "session_cleared"
)

type frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func marshalFrame(frameType string, data interface{}) []byte {
	b, _ := json.Marshal(frame{Type: frameType, Data: data})
	return b
}

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	chatService service.IChatService

	// Dedicated Logger
	logger logger.ILogger
}

var _ service.SessionEventDelivery = (*Hub)(nil)

func NewHub(rdb *redis.Client, chatService service.IChatService, log logger.ILogger) *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[string][]*Client),
		rdb:         rdb,
		chatService: chatService,
		logger:      log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SessionCleared notifies every connection of a session that its history
// was wiped. With Redis present the frame travels over the cluster channel
// so every instance delivers exactly once; without it only local
// connections are reached.
func (h *Hub) SessionCleared(sessionID string) {
	data := marshalFrame(frameTypeSessionCleared, nil)

	if h.rdb == nil {
		h.deliverToSession(sessionID, data)
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"target_session_id": sessionID,
		"message":           json.RawMessage(data),
	})
	h.rdb.Publish(context.Background(), "cluster_events", payload)
}

func (h *Hub) deliverToSession(sessionID string, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events". When a message arrives,
	// each instance delivers it to the target session's local connections.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetSessionID == "*" {
			h.mu.RLock()
			all := make([]*Client, 0)
			for _, clients := range h.clients {
				all = append(all, clients...)
			}
			h.mu.RUnlock()

			for _, client := range all {
				select {
				case client.Send <- payload.Message:
				default:
					h.unregister <- client
				}
			}
			continue
		}

		h.deliverToSession(payload.TargetSessionID, payload.Message)
	}
}
