package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"world-server/internal/models"
)

const (
	findPlayerQuery = `
        SELECT p.id, p.name, p.level, p.experience, p.coins, p.skills,
               p.strength, p.agility, p.intellect, p.stamina,
               p.training_sessions, p.distance_travelled, p.online,
               a.id AS avatar_id, c.name AS club_name
        FROM players p
        LEFT JOIN avatars a ON a.player_id = p.id AND a.equipped
        LEFT JOIN clubs c ON c.owner_id = p.id
        WHERE p.id = $1`

	updatePlayerStateQuery = `
        UPDATE players SET
            level = COALESCE($2, level),
            experience = COALESCE($3, experience),
            coins = COALESCE($4, coins),
            training_sessions = training_sessions + $5,
            distance_travelled = distance_travelled + $6,
            updated_at = now()
        WHERE id = $1`

	setPlayerOnlineQuery = `UPDATE players SET online = $2, last_seen_at = now() WHERE id = $1`

	listAvatarsQuery = `SELECT id, player_id, name, equipped FROM avatars WHERE player_id = $1 ORDER BY id`

	getClubQuery = `SELECT id, owner_id, name, emblem FROM clubs WHERE owner_id = $1`
)

// Compile-time check to ensure pgPlayerRepository implements PlayerRepository
var _ PlayerRepository = (*pgPlayerRepository)(nil)

type pgPlayerRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgPlayerRepository creates a new PostgreSQL-backed PlayerRepository.
func NewPgPlayerRepository(db DBTX, logger *zap.Logger) PlayerRepository {
	return &pgPlayerRepository{
		db:     db,
		logger: logger.Named("PgPlayerRepo"),
	}
}

// FindByID retrieves the full player record with its nested fields.
func (r *pgPlayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error) {
	rec := &models.PlayerRecord{}
	var skillsRaw []byte

	err := r.db.QueryRow(ctx, findPlayerQuery, id).Scan(
		&rec.ID, &rec.Name, &rec.Level, &rec.Experience, &rec.Coins, &skillsRaw,
		&rec.Stats.Strength, &rec.Stats.Agility, &rec.Stats.Intellect, &rec.Stats.Stamina,
		&rec.TrainingSessions, &rec.Distance, &rec.Online,
		&rec.AvatarID, &rec.ClubName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Player not found", zap.String("playerID", id.String()))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get player from postgres", zap.Error(err), zap.String("playerID", id.String()))
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	// skills хранится как jsonb; пустая колонка означает отсутствие навыков.
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &rec.Skills); err != nil {
			r.logger.Error("Failed to decode player skills", zap.Error(err), zap.String("playerID", id.String()))
			return nil, fmt.Errorf("failed to decode skills for player %s: %w", id, err)
		}
	}
	return rec, nil
}

// UpdateState applies the best-effort progress write in a single statement.
func (r *pgPlayerRepository) UpdateState(ctx context.Context, id uuid.UUID, update models.PlayerStateUpdate) error {
	tag, err := r.db.Exec(ctx, updatePlayerStateQuery, id,
		update.Level, update.Experience, update.Coins,
		update.TrainingSessions, update.Distance,
	)
	if err != nil {
		r.logger.Error("Failed to update player state in postgres", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to update state for player %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Player state update matched no rows", zap.String("playerID", id.String()))
		return models.ErrNotFound
	}
	return nil
}

// SetOnline flips the online flag on the durable record.
func (r *pgPlayerRepository) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	tag, err := r.db.Exec(ctx, setPlayerOnlineQuery, id, online)
	if err != nil {
		r.logger.Error("Failed to set player online flag", zap.Error(err), zap.String("playerID", id.String()), zap.Bool("online", online))
		return fmt.Errorf("failed to set online flag for player %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListAvatars returns the player's avatar collection.
func (r *pgPlayerRepository) ListAvatars(ctx context.Context, id uuid.UUID) ([]models.AvatarRecord, error) {
	var avatars []models.AvatarRecord
	if err := pgxscan.Select(ctx, r.db, &avatars, listAvatarsQuery, id); err != nil {
		r.logger.Error("Failed to list avatars", zap.Error(err), zap.String("playerID", id.String()))
		return nil, fmt.Errorf("failed to list avatars for player %s: %w", id, err)
	}
	return avatars, nil
}

// GetClub returns the club owned by the player.
func (r *pgPlayerRepository) GetClub(ctx context.Context, id uuid.UUID) (*models.ClubRecord, error) {
	var club models.ClubRecord
	if err := pgxscan.Get(ctx, r.db, &club, getClubQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get club", zap.Error(err), zap.String("playerID", id.String()))
		return nil, fmt.Errorf("failed to get club for player %s: %w", id, err)
	}
	return &club, nil
}
