package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"world-server/internal/models"
)

const (
	listItemsQuery = `SELECT id, name, type, price, description FROM items ORDER BY name`

	getItemQuery = `SELECT id, name, type, price, description FROM items WHERE id = $1`

	listPlayerItemsQuery = `
        SELECT id, player_id, item_id, equipped, acquired_at
        FROM player_items WHERE player_id = $1 ORDER BY acquired_at`

	addPlayerItemQuery = `INSERT INTO player_items (player_id, item_id) VALUES ($1, $2)`

	setEquippedQuery = `UPDATE player_items SET equipped = $2 WHERE id = $1`
)

// Compile-time check to ensure pgItemRepository implements ItemRepository
var _ ItemRepository = (*pgItemRepository)(nil)

type pgItemRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgItemRepository creates a new PostgreSQL-backed ItemRepository.
func NewPgItemRepository(db DBTX, logger *zap.Logger) ItemRepository {
	return &pgItemRepository{
		db:     db,
		logger: logger.Named("PgItemRepo"),
	}
}

// ListItems returns the global item catalog.
func (r *pgItemRepository) ListItems(ctx context.Context) ([]models.ItemRecord, error) {
	var items []models.ItemRecord
	if err := pgxscan.Select(ctx, r.db, &items, listItemsQuery); err != nil {
		r.logger.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns one catalog entry.
func (r *pgItemRepository) GetItem(ctx context.Context, id string) (*models.ItemRecord, error) {
	var item models.ItemRecord
	if err := pgxscan.Get(ctx, r.db, &item, getItemQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get item", zap.Error(err), zap.String("itemID", id))
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	return &item, nil
}

// ListPlayerItems returns the player's inventory.
func (r *pgItemRepository) ListPlayerItems(ctx context.Context, playerID uuid.UUID) ([]models.PlayerItemRecord, error) {
	var items []models.PlayerItemRecord
	if err := pgxscan.Select(ctx, r.db, &items, listPlayerItemsQuery, playerID); err != nil {
		r.logger.Error("Failed to list player items", zap.Error(err), zap.String("playerID", playerID.String()))
		return nil, fmt.Errorf("failed to list items for player %s: %w", playerID, err)
	}
	return items, nil
}

// AddPlayerItem grants an item to a player.
func (r *pgItemRepository) AddPlayerItem(ctx context.Context, playerID uuid.UUID, itemID string) error {
	if _, err := r.db.Exec(ctx, addPlayerItemQuery, playerID, itemID); err != nil {
		r.logger.Error("Failed to add player item", zap.Error(err), zap.String("playerID", playerID.String()), zap.String("itemID", itemID))
		return fmt.Errorf("failed to add item %s to player %s: %w", itemID, playerID, err)
	}
	return nil
}

// SetEquipped toggles the equipped flag on one inventory row.
func (r *pgItemRepository) SetEquipped(ctx context.Context, playerItemID int64, equipped bool) error {
	tag, err := r.db.Exec(ctx, setEquippedQuery, playerItemID, equipped)
	if err != nil {
		r.logger.Error("Failed to set equipped flag", zap.Error(err), zap.Int64("playerItemID", playerItemID))
		return fmt.Errorf("failed to set equipped flag on item %d: %w", playerItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
