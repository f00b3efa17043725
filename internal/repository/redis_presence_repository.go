package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// presenceTTL ограничивает время жизни записи присутствия: если процесс
// умер без очистки, ключ истечёт сам.
const presenceTTL = 5 * time.Minute

// Compile-time check to ensure redisPresenceRepository implements PresenceRepository
var _ PresenceRepository = (*redisPresenceRepository)(nil)

type redisPresenceRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPresenceRepository creates a new Redis-backed PresenceRepository.
func NewRedisPresenceRepository(client *redis.Client, logger *zap.Logger) PresenceRepository {
	return &redisPresenceRepository{
		client: client,
		logger: logger.Named("RedisPresenceRepo"),
	}
}

func presenceKey(id uuid.UUID) string {
	return fmt.Sprintf("presence:%s", id)
}

func zoneKey(zone string) string {
	return fmt.Sprintf("zone_population:%s", zone)
}

// SetOnline marks the player online and adds it to its zone's population set.
func (r *redisPresenceRepository) SetOnline(ctx context.Context, id uuid.UUID, zone string) error {
	pipe := r.client.Pipeline()
	pipe.Set(ctx, presenceKey(id), zone, presenceTTL)
	pipe.SAdd(ctx, zoneKey(zone), id.String())
	pipe.Expire(ctx, zoneKey(zone), presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set presence in redis", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to set presence for player %s: %w", id, err)
	}
	return nil
}

// SetOffline removes the presence key and the zone set membership.
func (r *redisPresenceRepository) SetOffline(ctx context.Context, id uuid.UUID) error {
	// Сначала узнаём последнюю зону, чтобы убрать игрока из её множества.
	zone, err := r.client.Get(ctx, presenceKey(id)).Result()
	if err != nil && err != redis.Nil {
		r.logger.Error("Failed to read presence in redis", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to read presence for player %s: %w", id, err)
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, presenceKey(id))
	if zone != "" {
		pipe.SRem(ctx, zoneKey(zone), id.String())
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to clear presence in redis", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to clear presence for player %s: %w", id, err)
	}
	return nil
}

// UpdateZone moves the player between zone population sets and refreshes the TTL.
func (r *redisPresenceRepository) UpdateZone(ctx context.Context, id uuid.UUID, zone string) error {
	prev, err := r.client.GetSet(ctx, presenceKey(id), zone).Result()
	if err != nil && err != redis.Nil {
		r.logger.Error("Failed to update presence zone in redis", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to update zone for player %s: %w", id, err)
	}

	pipe := r.client.Pipeline()
	pipe.Expire(ctx, presenceKey(id), presenceTTL)
	if prev != "" && prev != zone {
		pipe.SRem(ctx, zoneKey(prev), id.String())
	}
	pipe.SAdd(ctx, zoneKey(zone), id.String())
	pipe.Expire(ctx, zoneKey(zone), presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to move presence between zones", zap.Error(err), zap.String("playerID", id.String()))
		return fmt.Errorf("failed to move player %s to zone %s: %w", id, zone, err)
	}
	return nil
}
