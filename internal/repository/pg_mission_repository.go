package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"world-server/internal/models"
)

const (
	listMissionsQuery = `SELECT id, title, description, reward_xp, reward_coins FROM missions ORDER BY id`

	listPlayerMissionsQuery = `
        SELECT player_id, mission_id, status, updated_at
        FROM player_missions WHERE player_id = $1 ORDER BY updated_at DESC`
)

// Compile-time check to ensure pgMissionRepository implements MissionRepository
var _ MissionRepository = (*pgMissionRepository)(nil)

type pgMissionRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgMissionRepository creates a new PostgreSQL-backed MissionRepository.
func NewPgMissionRepository(db DBTX, logger *zap.Logger) MissionRepository {
	return &pgMissionRepository{
		db:     db,
		logger: logger.Named("PgMissionRepo"),
	}
}

// ListMissions returns the mission catalog.
func (r *pgMissionRepository) ListMissions(ctx context.Context) ([]models.MissionRecord, error) {
	var missions []models.MissionRecord
	if err := pgxscan.Select(ctx, r.db, &missions, listMissionsQuery); err != nil {
		r.logger.Error("Failed to list missions", zap.Error(err))
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

// ListPlayerMissions returns one player's mission progress.
func (r *pgMissionRepository) ListPlayerMissions(ctx context.Context, playerID uuid.UUID) ([]models.PlayerMissionRecord, error) {
	var missions []models.PlayerMissionRecord
	if err := pgxscan.Select(ctx, r.db, &missions, listPlayerMissionsQuery, playerID); err != nil {
		r.logger.Error("Failed to list player missions", zap.Error(err), zap.String("playerID", playerID.String()))
		return nil, fmt.Errorf("failed to list missions for player %s: %w", playerID, err)
	}
	return missions, nil
}
