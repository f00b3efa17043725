package service

import (
	"encoding/json"
	"math/rand/v2"

	"go.uber.org/zap"

	"world-server/internal/models"
)

// HandleAction routes a tagged action to exactly one handler. The set of
// tags is closed; unknown tags are logged and dropped, never fatal.
func (s *Service) HandleAction(connID string, req models.ActionRequest) {
	p, ok := s.registry.Get(connID)
	if !ok {
		s.logger.Debug("Action for unknown connection dropped", zap.String("connID", connID))
		return
	}

	switch req.Type {
	case models.ActionTrain:
		s.handleTrain(connID, p)
	case models.ActionQuest:
		s.handleQuest(connID, p, req.Payload)
	case models.ActionTrade:
		s.handleTrade(connID, p, req.Payload)
	case models.ActionSocial:
		s.handleSocial(connID, p, req.Payload)
	default:
		s.logger.Warn("Unknown action type dropped",
			zap.String("connID", connID), zap.String("actionType", req.Type))
	}
}

// handleTrain grants a pseudo-random experience amount and applies level-up
// bonuses. The in-memory mutation happens before the reply and the level-up
// broadcast; the progress write is best-effort and never rolled back.
func (s *Service) handleTrain(connID string, p *models.Player) {
	xpGain := s.params.TrainXPMin + rand.IntN(s.params.TrainXPMax-s.params.TrainXPMin+1)
	out := p.ApplyTraining(xpGain, s.params.LevelUpCoinBonus, s.params.LevelUpSkillBonus)

	if out.LeveledUp {
		s.sender.BroadcastExcept(connID, models.EventLevelUp, models.LevelUp{
			ConnID: connID,
			Name:   p.Name,
			Level:  out.NewLevel,
		})
	}
	s.sender.SendTo(connID, models.EventActionResult, models.ActionResult{
		Action:  models.ActionTrain,
		Success: true,
		Result:  out,
	})

	if uid, persisted := durableID(p); persisted {
		level, experience, coins := p.ProgressSnapshot()
		s.bridge.UpsertPlayerState(uid, models.PlayerStateUpdate{
			Level:            &level,
			Experience:       &experience,
			Coins:            &coins,
			TrainingSessions: 1,
		})
	}
}

// handleQuest grants the fixed quest reward. Completion validation against
// prerequisites is deliberately absent: every quest is treated as eligible.
func (s *Service) handleQuest(connID string, p *models.Player, payload json.RawMessage) {
	var qa models.QuestAction
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &qa) // битый payload ведёт себя как пустой
	}

	out := p.ApplyQuestReward(s.params.QuestRewardXP, s.params.QuestRewardCoins)
	out.QuestID = qa.QuestID
	out.ItemID = s.params.QuestRewardItemID

	s.sender.SendTo(connID, models.EventActionResult, models.ActionResult{
		Action:  models.ActionQuest,
		Success: true,
		Result:  out,
	})

	if uid, persisted := durableID(p); persisted {
		level, experience, coins := p.ProgressSnapshot()
		s.bridge.UpsertPlayerState(uid, models.PlayerStateUpdate{
			Level:      &level,
			Experience: &experience,
			Coins:      &coins,
		})
		s.bridge.GrantItem(uid, s.params.QuestRewardItemID)
	}
}

// handleTrade deducts the cost when the balance covers it. The balance never
// goes negative; a failed trade mutates nothing. No broadcast either way.
func (s *Service) handleTrade(connID string, p *models.Player, payload json.RawMessage) {
	var ta models.TradeAction
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &ta)
	}

	remaining, ok := p.SpendCoins(ta.Cost)
	result := models.ActionResult{
		Action:  models.ActionTrade,
		Success: ok,
		Result: models.TradeOutcome{
			ItemID: ta.ItemID,
			Cost:   ta.Cost,
			Coins:  remaining,
		},
	}
	if !ok {
		result.Error = "insufficient funds"
	}
	s.sender.SendTo(connID, models.EventActionResult, result)
}

// handleSocial broadcasts an emote descriptor to everyone else. No state
// mutation, no persistence.
func (s *Service) handleSocial(connID string, p *models.Player, payload json.RawMessage) {
	var sa models.SocialAction
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &sa)
	}
	if sa.Action == "" {
		return
	}
	s.sender.BroadcastExcept(connID, models.EventEmoteBroadcast, models.EmoteBroadcast{
		ConnID: connID,
		Name:   p.Name,
		Emote:  sa.Action,
	})
}
