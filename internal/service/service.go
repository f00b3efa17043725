// Package service implements the session/state synchronization engine:
// identity resolution, movement, NPC interaction, the action dispatcher and
// the chat command interpreter. All in-memory mutation is synchronous and
// visible before any reply or broadcast; persistence is fire-and-forget.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"world-server/internal/models"
	"world-server/internal/registry"
	"world-server/internal/world"
)

// Sender delivers outbound events to connections. Implemented by the
// websocket connection manager; implementations must never block the caller
// on a slow connection.
type Sender interface {
	SendTo(connID string, event string, payload any)
	Broadcast(event string, payload any)
	BroadcastExcept(connID string, event string, payload any)
}

// Bridge is the best-effort persistence interface consumed by the engine.
// FindPlayer is synchronous (the join path needs its result); every write is
// fire-and-forget and must never surface an error into the event path.
type Bridge interface {
	FindPlayer(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error)
	UpsertPlayerState(id uuid.UUID, update models.PlayerStateUpdate)
	InsertRoomMessage(id uuid.UUID, text, roomKey string)
	SetOnlineStatus(id uuid.UUID, online bool, zone string)
	GrantItem(playerID uuid.UUID, itemID string)
	UpdatePresenceZone(id uuid.UUID, zone string)
}

// Params are the gameplay tunables. None of them are correctness
// requirements; tests override them for determinism.
type Params struct {
	InteractionRadius float64

	TrainXPMin        int
	TrainXPMax        int
	LevelUpCoinBonus  int
	LevelUpSkillBonus int

	QuestRewardXP     int
	QuestRewardCoins  int
	QuestRewardItemID string

	// DistanceSampleChance is the probability a move event flushes the
	// accumulated distance to the store.
	DistanceSampleChance float64

	// FindTimeout bounds the synchronous store lookup on join.
	FindTimeout time.Duration
}

// DefaultParams returns the production tunables.
func DefaultParams() Params {
	return Params{
		InteractionRadius:    120,
		TrainXPMin:           50,
		TrainXPMax:           150,
		LevelUpCoinBonus:     250,
		LevelUpSkillBonus:    1,
		QuestRewardXP:        500,
		QuestRewardCoins:     100,
		QuestRewardItemID:    "item_quest_cache",
		DistanceSampleChance: 0.1,
		FindTimeout:          3 * time.Second,
	}
}

// Service is the synchronization engine. It owns no transport and no storage:
// the registry, the world map, the sender and the bridge are injected.
type Service struct {
	registry *registry.Registry
	world    *world.World
	bridge   Bridge
	sender   Sender
	params   Params
	logger   *zap.Logger
}

// New creates the engine.
func New(reg *registry.Registry, w *world.World, bridge Bridge, sender Sender, params Params, logger *zap.Logger) *Service {
	return &Service{
		registry: reg,
		world:    w,
		bridge:   bridge,
		sender:   sender,
		params:   params,
		logger:   logger.Named("GameService"),
	}
}

// Status returns the read-only aggregate projection over the registry.
func (s *Service) Status() models.StatusReport {
	return s.registry.Status()
}

// HandlePing answers the application-level keep-alive.
func (s *Service) HandlePing(connID string) {
	s.sender.SendTo(connID, models.EventPong, nil)
}

// HandleDisconnect removes the player and broadcasts the shrunken roster.
// The connection is already retired by the transport layer at this point, so
// no later event can recreate the entry. Idempotent: a second call for the
// same connection is a no-op.
func (s *Service) HandleDisconnect(connID string) {
	p, ok := s.registry.Remove(connID)
	if !ok {
		return
	}

	if uid, persisted := durableID(p); persisted {
		s.bridge.SetOnlineStatus(uid, false, "")
	}

	s.sender.Broadcast(models.EventRosterUpdate, models.RosterUpdate{Players: s.registry.Snapshot()})
	s.logger.Info("Player left",
		zap.String("connID", connID),
		zap.String("name", p.Name),
		zap.Bool("temporary", p.Temporary),
	)
}

// durableID returns the parsed durable id for persisted players.
// Temporary и UserID неизменяемы после создания игрока, поэтому читаются без лока.
func durableID(p *models.Player) (uuid.UUID, bool) {
	if p.Temporary || p.UserID == "" {
		return uuid.UUID{}, false
	}
	uid, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.UUID{}, false
	}
	return uid, true
}
