package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/events"

	"github.com/redis/go-redis/v9"
)

const (
	hubModule = "Hub"

	// clusterChannel carries frames between instances.
	clusterChannel = "cluster_events"

	// broadcastTarget addresses every connected session.
	broadcastTarget = "*"
)

// Frame is the envelope of every outbound websocket message.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Target  string          `json:"target_session_id"`
	Origin  string          `json:"origin_instance"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	// Connected clients: SessionID -> clients (several tabs may share a session)
	clients map[string][]*Client

	register chan *Client

	// done is closed when Run returns.
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance delivery, nil when running alone
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, instanceID string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: instanceID,
		logger:     log,
	}
}

// Run serves registrations until ctx ends. Clients already attached keep
// receiving frames after that.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"session_id": client.SessionID})
		}
	}
}

// Register attaches a client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// ClientCount is the number of open connections on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Publish pushes an event to every connected session, here and on the
// other instances. It lets the hub sit behind events.Publisher.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(Frame{Type: event.EventType(), Data: event.Payload()})
	if err != nil {
		return err
	}
	h.deliver(broadcastTarget, data)
	return h.relay(ctx, broadcastTarget, data)
}

// SendTo delivers a frame to every client attached to sessionID.
func (h *Hub) SendTo(ctx context.Context, sessionID string, frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	h.deliver(sessionID, data)
	return h.relay(ctx, sessionID, data)
}

func (h *Hub) deliver(target string, data []byte) {
	h.mu.RLock()
	var recipients []*Client
	if target == broadcastTarget {
		for _, clients := range h.clients {
			recipients = append(recipients, clients...)
		}
	} else {
		recipients = append(recipients, h.clients[target]...)
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		if !client.enqueue(data) {
			h.logger.Warn(hubModule, "Client send buffer full, dropping client", map[string]interface{}{"session_id": client.SessionID})
			h.drop(client)
		}
	}
}

// drop removes a client and closes its send channel once.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info(hubModule, "Session has no more clients", map[string]interface{}{"session_id": client.SessionID})
	}
}

func (h *Hub) relay(ctx context.Context, target string, data []byte) error {
	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Target: target, Origin: h.instanceID, Message: data})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, clusterChannel, payload).Err()
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn(hubModule, "Malformed cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Already delivered locally by the sender.
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliver(payload.Target, payload.Message)
		}
	}
}
