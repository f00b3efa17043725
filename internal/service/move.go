package service

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"world-server/internal/models"
)

// HandleMove applies a position update, re-resolves the zone and fans the
// movement out to every other connection. The mover alone is told about a
// zone change; the movement broadcast never loops back to the sender.
func (s *Service) HandleMove(connID string, req models.MoveRequest) {
	p, ok := s.registry.Get(connID)
	if !ok {
		s.logger.Debug("Move event for unknown connection dropped", zap.String("connID", connID))
		return
	}

	dir := models.ParseDirection(req.Direction)
	p.ApplyMovement(req.X, req.Y, dir, req.Moving)

	newZone := s.world.Resolve(req.X, req.Y)
	if p.UpdateZone(newZone) {
		s.sender.SendTo(connID, models.EventZoneChanged, models.ZoneChanged{Zone: newZone})
		if uid, persisted := durableID(p); persisted {
			s.bridge.UpdatePresenceZone(uid, newZone)
		}
	}

	// Выборочная запись накопленной дистанции; вероятность — тюнинг, не
	// корректность.
	if uid, persisted := durableID(p); persisted && rand.Float64() < s.params.DistanceSampleChance {
		if dist := p.DrainPendingDistance(); dist > 0 {
			s.bridge.UpsertPlayerState(uid, models.PlayerStateUpdate{Distance: dist})
		}
	}

	s.sender.BroadcastExcept(connID, models.EventPlayerMoved, models.PlayerMoved{
		ConnID:    connID,
		X:         req.X,
		Y:         req.Y,
		Direction: dir,
		Moving:    req.Moving,
	})
}
