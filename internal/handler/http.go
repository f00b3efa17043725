// Package handler exposes the HTTP surface: health, the read-only status
// projection, the CRUD proxy routes to the durable store and the websocket
// upgrade endpoint.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"world-server/internal/repository"
	"world-server/internal/service"
)

// APIHandler serves the REST routes.
type APIHandler struct {
	game     *service.Service
	players  repository.PlayerRepository
	items    repository.ItemRepository
	missions repository.MissionRepository
	logger   *zap.Logger
}

// NewAPIHandler creates the REST handler.
func NewAPIHandler(
	game *service.Service,
	players repository.PlayerRepository,
	items repository.ItemRepository,
	missions repository.MissionRepository,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		game:     game,
		players:  players,
		items:    items,
		missions: missions,
		logger:   logger.Named("APIHandler"),
	}
}

// RegisterRoutes attaches the REST routes to the router.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/status", h.GetStatus)

		player := api.Group("/player")
		{
			player.GET("/:userId", h.GetPlayer)
			player.GET("/:userId/avatars", h.GetPlayerAvatars)
			player.GET("/:userId/club", h.GetPlayerClub)
			player.GET("/:userId/missions", h.GetPlayerMissions)
		}

		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)

		inventory := api.Group("/inventory")
		{
			inventory.GET("/:userId", h.GetInventory)
			inventory.POST("/add", h.AddInventoryItem)
			inventory.PUT("/equip", h.EquipInventoryItem)
		}

		api.GET("/missions", h.ListMissions)
	}
}

// GetStatus returns the aggregate projection over the live registry.
func (h *APIHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Status())
}
