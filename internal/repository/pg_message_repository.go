package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const insertRoomMessageQuery = `INSERT INTO room_messages (player_id, text, room_key) VALUES ($1, $2, $3)`

// Compile-time check to ensure pgMessageRepository implements MessageRepository
var _ MessageRepository = (*pgMessageRepository)(nil)

type pgMessageRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgMessageRepository creates a new PostgreSQL-backed MessageRepository.
func NewPgMessageRepository(db DBTX, logger *zap.Logger) MessageRepository {
	return &pgMessageRepository{
		db:     db,
		logger: logger.Named("PgMessageRepo"),
	}
}

// InsertRoomMessage stores one chat line keyed by the zone it was spoken in.
func (r *pgMessageRepository) InsertRoomMessage(ctx context.Context, playerID uuid.UUID, text, roomKey string) error {
	if _, err := r.db.Exec(ctx, insertRoomMessageQuery, playerID, text, roomKey); err != nil {
		r.logger.Error("Failed to insert room message", zap.Error(err), zap.String("playerID", playerID.String()), zap.String("roomKey", roomKey))
		return fmt.Errorf("failed to insert room message for player %s: %w", playerID, err)
	}
	return nil
}
