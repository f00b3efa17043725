package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"world-server/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Проверяем origin запроса (в продакшене здесь должна быть проверка)
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Добавить проверку Origin для безопасности
		return true
	},
}

// WebSocketHandler обрабатывает запросы на установку WebSocket соединения.
type WebSocketHandler struct {
	manager *ws.Manager
	events  ws.EventHandler
	logger  zerolog.Logger
}

// NewWebSocketHandler создает новый обработчик WebSocket.
func NewWebSocketHandler(manager *ws.Manager, events ws.EventHandler, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		events:  events,
		logger:  logger.With().Str("component", "WebSocketHandler").Logger(),
	}
}

// ServeWS upgrades the request and starts the session pumps. Identity comes
// later through the join event, so the connection is keyed by a fresh id
// rather than anything from the request.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Не пишем ошибку в http.ResponseWriter, так как upgrader уже это сделал
		h.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	connID := uuid.NewString()
	h.logger.Info().Str("connID", connID).Str("remote", c.Request.RemoteAddr).Msg("WebSocket connection established")

	client := ws.NewClient(connID, conn, h.manager, h.events, h.logger)
	h.manager.Register(client)
	client.Start()
}
