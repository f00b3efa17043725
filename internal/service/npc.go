package service

import (
	"math"

	"go.uber.org/zap"

	"world-server/internal/models"
)

// HandleInteractNPC gates NPC dialog on proximity. Replies go to the
// requester only; there is no broadcast and no persistence on this path.
func (s *Service) HandleInteractNPC(connID string, req models.InteractRequest) {
	p, ok := s.registry.Get(connID)
	if !ok {
		return
	}
	npc, ok := s.world.NPC(req.NPCID)
	if !ok {
		s.logger.Debug("Interaction with unknown NPC dropped",
			zap.String("connID", connID), zap.String("npcID", req.NPCID))
		return
	}

	x, y := p.Position()
	if math.Hypot(npc.X-x, npc.Y-y) > s.params.InteractionRadius {
		s.sender.SendTo(connID, models.EventInteractionError, models.InteractionError{
			NPCID:  npc.ID,
			Reason: "too far away",
		})
		return
	}

	s.sender.SendTo(connID, models.EventNPCDialog, models.NPCDialog{
		NPCID:    npc.ID,
		Name:     npc.Name,
		Type:     npc.Type,
		Dialog:   npc.Dialog,
		QuestIDs: npc.QuestIDs,
		ItemIDs:  npc.ItemIDs,
	})
}
