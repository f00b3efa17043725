package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"world-server/internal/models"
)

const (
	// Время, разрешенное для записи сообщения клиенту.
	writeWait = 10 * time.Second
	// Время, разрешенное для чтения следующего pong сообщения от клиента.
	pongWait = 60 * time.Second
	// Отправлять пинги клиенту с этим периодом. Должно быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Максимальный размер сообщения, разрешенный от клиента.
	maxMessageSize = 4096

	sendQueueSize = 256
)

// Client is one websocket connection with its outbound queue.
type Client struct {
	id      string
	conn    *websocket.Conn
	manager *Manager
	handler EventHandler
	logger  zerolog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Start must be called to run the pumps.
func NewClient(id string, conn *websocket.Conn, manager *Manager, handler EventHandler, logger zerolog.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		manager: manager,
		handler: handler,
		logger:  logger.With().Str("connID", id).Logger(),
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump decodes inbound frames and hands them to the event handler.
// On exit the connection is retired from the manager BEFORE the disconnect
// event reaches the game service, so no late frame can recreate the player.
func (c *Client) readPump() {
	defer func() {
		c.manager.Unregister(c.id)
		c.handler.HandleDisconnect(c.id)
		_ = c.conn.Close()
		c.logger.Info().Msg("readPump finished")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket read error")
			} else {
				c.logger.Info().Msg("WebSocket connection closed")
			}
			break
		}
		c.dispatch(message)
	}
}

// dispatch decodes one inbound envelope. Malformed frames are logged and
// dropped; they never terminate the connection.
func (c *Client) dispatch(message []byte) {
	var env models.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Malformed inbound frame dropped")
		return
	}
	eventsInTotal.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case models.EventJoin:
		var req models.JoinRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleJoin(c.id, req)
		}
	case models.EventMove:
		var req models.MoveRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleMove(c.id, req)
		}
	case models.EventInteractNPC:
		var req models.InteractRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleInteractNPC(c.id, req)
		}
	case models.EventChat:
		var req models.ChatRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleChat(c.id, req)
		}
	case models.EventAction:
		var req models.ActionRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleAction(c.id, req)
		}
	case models.EventEmote:
		var req models.EmoteRequest
		if c.decode(env.Payload, &req) {
			c.handler.HandleEmote(c.id, req)
		}
	case models.EventPing:
		c.handler.HandlePing(c.id)
	default:
		c.logger.Warn().Str("type", env.Type).Msg("Unknown inbound event type dropped")
	}
}

func (c *Client) decode(payload json.RawMessage, into any) bool {
	if len(payload) == 0 {
		return true
	}
	if err := json.Unmarshal(payload, into); err != nil {
		c.logger.Warn().Err(err).Msg("Malformed event payload dropped")
		return false
	}
	return true
}

// writePump drains the send queue into the connection and keeps the
// websocket-level ping/pong alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.logger.Info().Msg("writePump finished")
	}()
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to write message")
				return
			}

			// Отправляем все сообщения из очереди за раз.
			n := len(c.send)
			for i := 0; i < n; i++ {
				queued := <-c.send
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, queued); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to write queued message")
					return
				}
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to send ping")
				return
			}
		}
	}
}
