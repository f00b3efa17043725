package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"world-server/internal/models"
	"world-server/internal/world"
)

const defaultPlayerName = "Traveler"

const defaultSkillValue = 10

// defaultSkills — стартовый набор навыков временного игрока.
var defaultSkills = []string{"combat", "fishing", "cooking", "mining"}

var spawnColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
}

// HandleJoin resolves or fabricates a player for the connection, inserts it
// into the registry and sends the world to the new connection. Every branch
// of identity resolution produces a usable player; only the temporary
// classification differs.
func (s *Service) HandleJoin(connID string, req models.JoinRequest) {
	player := s.resolveIdentity(req)
	player.ConnID = connID
	player.Zone = s.world.Resolve(player.X, player.Y)

	s.registry.Join(player)

	view := player.View()
	s.sender.SendTo(connID, models.EventJoinResult, models.JoinResult{Success: true, Player: view})
	s.sender.SendTo(connID, models.EventWorldSnapshot, s.world.Snapshot())
	s.sender.SendTo(connID, models.EventNPCCatalog, s.world.NPCs())
	s.sender.Broadcast(models.EventRosterUpdate, models.RosterUpdate{Players: s.registry.Snapshot()})

	if uid, persisted := durableID(player); persisted {
		// Отметка online в хранилище — асинхронная и необязательная.
		s.bridge.SetOnlineStatus(uid, true, view.Zone)
	}

	s.logger.Info("Player joined",
		zap.String("connID", connID),
		zap.String("name", view.Name),
		zap.Bool("temporary", view.Temporary),
		zap.String("zone", view.Zone),
	)
}

// resolveIdentity is the fallback chain of the join path: malformed ids,
// missing records and store failures all degrade to a temporary player,
// never to an error.
func (s *Service) resolveIdentity(req models.JoinRequest) *models.Player {
	if req.UserID == "" {
		return s.temporaryPlayer(req.Name)
	}

	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		s.logger.Warn("Malformed durable id on join, falling back to temporary player",
			zap.String("userID", req.UserID))
		return s.temporaryPlayer(req.Name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.params.FindTimeout)
	defer cancel()

	rec, err := s.bridge.FindPlayer(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("No durable record for id, falling back to temporary player",
				zap.String("userID", req.UserID))
		} else {
			s.logger.Warn("Durable store lookup failed, falling back to temporary player",
				zap.String("userID", req.UserID), zap.Error(err))
		}
		return s.temporaryPlayer(req.Name)
	}

	return s.persistedPlayer(rec, req.Name)
}

// temporaryPlayer fabricates a session-only participant.
func (s *Service) temporaryPlayer(name string) *models.Player {
	if name == "" {
		name = defaultPlayerName
	}
	skills := make(map[string]int, len(defaultSkills))
	for _, skill := range defaultSkills {
		skills[skill] = defaultSkillValue
	}
	x, y := randomSpawn()
	return &models.Player{
		UserID:    uuid.NewString(), // synthetic, never персистится
		Name:      name,
		Color:     spawnColors[rand.IntN(len(spawnColors))],
		Skills:    skills,
		Level:     1,
		X:         x,
		Y:         y,
		Direction: models.DirectionNone,
		Temporary: true,
	}
}

// persistedPlayer builds a player from its durable record.
func (s *Service) persistedPlayer(rec *models.PlayerRecord, fallbackName string) *models.Player {
	name := rec.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = defaultPlayerName
	}

	skills := make(map[string]int, len(rec.Skills))
	for skill, value := range rec.Skills {
		skills[skill] = value
	}

	avatar := ""
	if rec.AvatarID != nil {
		avatar = *rec.AvatarID
	}
	club := ""
	if rec.ClubName != nil {
		club = *rec.ClubName
	}

	// Уровень пересчитывается из опыта и никогда не опускается ниже записи.
	level := rec.Level
	if computed := models.LevelForExperience(rec.Experience); computed > level {
		level = computed
	}

	x, y := randomSpawn()
	return &models.Player{
		UserID:           rec.ID.String(),
		Name:             name,
		Color:            spawnColors[rand.IntN(len(spawnColors))],
		Avatar:           avatar,
		Club:             club,
		Stats:            rec.Stats,
		Skills:           skills,
		Level:            level,
		Experience:       rec.Experience,
		Coins:            rec.Coins,
		TrainingSessions: rec.TrainingSessions,
		X:                x,
		Y:                y,
		Direction:        models.DirectionNone,
		Temporary:        false,
	}
}

func randomSpawn() (float64, float64) {
	region := world.StarterRegion
	return region.X + rand.Float64()*region.Width, region.Y + rand.Float64()*region.Height
}
