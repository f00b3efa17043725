// Package repository defines the query interfaces to the durable player
// store and their PostgreSQL/Redis implementations.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"world-server/internal/models"
)

// DBTX is the querier abstraction satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlayerRepository reads and writes durable player rows.
type PlayerRepository interface {
	// FindByID returns the full record with nested skills, stats, equipped
	// avatar and club, or models.ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error)
	// UpdateState applies a best-effort state write. Nil fields are skipped,
	// counter fields are added.
	UpdateState(ctx context.Context, id uuid.UUID, update models.PlayerStateUpdate) error
	// SetOnline flips the online flag on the durable record.
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
	// ListAvatars returns the player's avatar collection.
	ListAvatars(ctx context.Context, id uuid.UUID) ([]models.AvatarRecord, error)
	// GetClub returns the club owned by the player, or models.ErrNotFound.
	GetClub(ctx context.Context, id uuid.UUID) (*models.ClubRecord, error)
}

// ItemRepository reads the item catalog and the per-player inventory.
type ItemRepository interface {
	ListItems(ctx context.Context) ([]models.ItemRecord, error)
	GetItem(ctx context.Context, id string) (*models.ItemRecord, error)
	ListPlayerItems(ctx context.Context, playerID uuid.UUID) ([]models.PlayerItemRecord, error)
	AddPlayerItem(ctx context.Context, playerID uuid.UUID, itemID string) error
	SetEquipped(ctx context.Context, playerItemID int64, equipped bool) error
}

// MissionRepository reads the mission catalog and per-player mission state.
type MissionRepository interface {
	ListMissions(ctx context.Context) ([]models.MissionRecord, error)
	ListPlayerMissions(ctx context.Context, playerID uuid.UUID) ([]models.PlayerMissionRecord, error)
}

// MessageRepository persists room-scoped chat lines.
type MessageRepository interface {
	InsertRoomMessage(ctx context.Context, playerID uuid.UUID, text, roomKey string) error
}

// PresenceRepository tracks volatile online state in Redis. It complements
// the online flag on the durable record; entries expire on their own if the
// process dies without cleaning up.
type PresenceRepository interface {
	SetOnline(ctx context.Context, id uuid.UUID, zone string) error
	SetOffline(ctx context.Context, id uuid.UUID) error
	UpdateZone(ctx context.Context, id uuid.UUID, zone string) error
}
