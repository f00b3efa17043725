package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"world-server/internal/models"
)

// GetPlayer returns the durable record for one player.
func (h *APIHandler) GetPlayer(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	record, err := h.players.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		h.logger.Error("Failed to load player", zap.String("playerID", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetPlayerAvatars returns the avatar collection owned by the player.
func (h *APIHandler) GetPlayerAvatars(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	avatars, err := h.players.ListAvatars(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list avatars", zap.String("playerID", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list avatars"})
		return
	}

	c.JSON(http.StatusOK, avatars)
}

// GetPlayerClub returns the club owned by the player.
func (h *APIHandler) GetPlayerClub(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	club, err := h.players.GetClub(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
			return
		}
		h.logger.Error("Failed to load club", zap.String("playerID", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load club"})
		return
	}

	c.JSON(http.StatusOK, club)
}

// GetPlayerMissions returns the mission progress rows for the player.
func (h *APIHandler) GetPlayerMissions(c *gin.Context) {
	id, ok := h.parseUserID(c)
	if !ok {
		return
	}

	missions, err := h.missions.ListPlayerMissions(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list player missions", zap.String("playerID", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list player missions"})
		return
	}

	c.JSON(http.StatusOK, missions)
}

// parseUserID reads and validates the :userId path parameter. On failure it
// writes the 400 response itself and returns ok=false.
func (h *APIHandler) parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
