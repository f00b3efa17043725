// Package ws implements the websocket transport: the connection manager and
// the per-connection read/write pumps. It knows nothing about game rules;
// inbound events are handed to an EventHandler and outbound fan-out works on
// pre-marshaled frames.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"world-server/internal/models"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_ws_connections_active",
		Help: "Number of currently open websocket connections.",
	})

	eventsInTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_ws_events_in_total",
		Help: "Total number of inbound websocket events by type.",
	}, []string{"type"})

	sendsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_ws_sends_dropped_total",
		Help: "Total number of outbound frames dropped because a client send queue was full.",
	})
)

// EventHandler consumes decoded inbound events. Implemented by the game
// service; every method must be safe for concurrent calls from different
// connection goroutines.
type EventHandler interface {
	HandleJoin(connID string, req models.JoinRequest)
	HandleMove(connID string, req models.MoveRequest)
	HandleInteractNPC(connID string, req models.InteractRequest)
	HandleChat(connID string, req models.ChatRequest)
	HandleAction(connID string, req models.ActionRequest)
	HandleEmote(connID string, req models.EmoteRequest)
	HandlePing(connID string)
	HandleDisconnect(connID string)
}

// Manager tracks active connections and fans frames out to them.
// Send-каналы никогда не закрываются: writePump завершается через done,
// поэтому конкурентная рассылка не может попасть в закрытый канал.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  zerolog.Logger
}

// NewManager creates an empty connection manager.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		logger:  logger.With().Str("component", "ConnectionManager").Logger(),
	}
}

// Register adds a connected client.
func (m *Manager) Register(c *Client) {
	m.mu.Lock()
	m.clients[c.id] = c
	m.mu.Unlock()
	connectionsActive.Inc()
	m.logger.Info().Str("connID", c.id).Msg("Client registered")
}

// Unregister retires a client. Idempotent: the second call for the same
// connection id is a no-op.
func (m *Manager) Unregister(connID string) {
	m.mu.Lock()
	c, ok := m.clients[connID]
	if ok {
		delete(m.clients, connID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	c.closeOnce.Do(func() { close(c.done) })
	connectionsActive.Dec()
	m.logger.Info().Str("connID", connID).Msg("Client unregistered")
}

// Len returns the number of tracked connections.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// SendTo queues a frame for one connection. A full queue drops the frame
// rather than blocking the caller.
func (m *Manager) SendTo(connID string, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		m.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal outbound frame")
		return
	}
	m.mu.RLock()
	c, ok := m.clients[connID]
	m.mu.RUnlock()
	if !ok {
		m.logger.Debug().Str("connID", connID).Str("event", event).Msg("Send to unknown connection dropped")
		return
	}
	m.enqueue(c, frame)
}

// Broadcast queues a frame for every connection.
func (m *Manager) Broadcast(event string, payload any) {
	m.broadcast(event, payload, "")
}

// BroadcastExcept queues a frame for every connection but one.
func (m *Manager) BroadcastExcept(exceptConnID string, event string, payload any) {
	m.broadcast(event, payload, exceptConnID)
}

func (m *Manager) broadcast(event string, payload any, exceptConnID string) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		m.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal broadcast frame")
		return
	}
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.clients))
	for id, c := range m.clients {
		if id == exceptConnID {
			continue
		}
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	// Один медленный клиент не должен задерживать остальных: очередь либо
	// принимает кадр сразу, либо кадр для этого клиента теряется.
	for _, c := range targets {
		m.enqueue(c, frame)
	}
}

func (m *Manager) enqueue(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		sendsDroppedTotal.Inc()
		m.logger.Warn().Str("connID", c.id).Msg("Send queue full, frame dropped")
	}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	env := models.Envelope{Type: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
