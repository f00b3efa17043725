package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"world-server/internal/models"
)

// ListItems returns the full item catalog.
func (h *APIHandler) ListItems(c *gin.Context) {
	items, err := h.items.ListItems(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetItem returns one catalog item by id.
func (h *APIHandler) GetItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return
	}

	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		h.logger.Error("Failed to load item", zap.String("itemID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetInventory returns the inventory rows for one player.
func (h *APIHandler) GetInventory(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	inventory, err := h.items.ListPlayerItems(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list inventory", zap.String("playerID", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inventory"})
		return
	}

	c.JSON(http.StatusOK, inventory)
}

type addItemRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	ItemID   string `json:"item_id" binding:"required"`
}

// AddInventoryItem grants a catalog item to a player.
func (h *APIHandler) AddInventoryItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id and item_id are required"})
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	if err := h.items.AddPlayerItem(c.Request.Context(), playerID, req.ItemID); err != nil {
		h.logger.Error("Failed to add inventory item",
			zap.String("playerID", playerID.String()),
			zap.String("itemID", req.ItemID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

type equipItemRequest struct {
	PlayerItemID int64 `json:"player_item_id" binding:"required"`
	Equipped     *bool `json:"equipped" binding:"required"`
}

// EquipInventoryItem toggles the equipped flag on an inventory row.
func (h *APIHandler) EquipInventoryItem(c *gin.Context) {
	var req equipItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_item_id and equipped are required"})
		return
	}

	if err := h.items.SetEquipped(c.Request.Context(), req.PlayerItemID, *req.Equipped); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		h.logger.Error("Failed to equip item", zap.Int64("playerItemID", req.PlayerItemID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to equip item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMissions returns the mission catalog.
func (h *APIHandler) ListMissions(c *gin.Context) {
	missions, err := h.missions.ListMissions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list missions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list missions"})
		return
	}

	c.JSON(http.StatusOK, missions)
}
