// Package persistence implements the best-effort write bridge between the
// in-memory session state and the durable store. Writes are fire-and-forget:
// they never block gameplay and their failures are logged, never propagated.
package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"world-server/internal/models"
	"world-server/internal/repository"
)

var (
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_persistence_writes_total",
		Help: "Total number of submitted best-effort persistence writes by operation.",
	}, []string{"op"})

	writeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_persistence_write_failures_total",
		Help: "Total number of failed best-effort persistence writes by operation.",
	}, []string{"op"})
)

// Config tunes the bridge worker pool.
type Config struct {
	// MaxConcurrentWrites bounds the number of in-flight store writes.
	MaxConcurrentWrites int
	// WriteTimeout bounds each individual write.
	WriteTimeout time.Duration
}

// Bridge wraps the repositories behind the asynchronous write discipline the
// game loop requires. Reads (FindPlayer) stay synchronous: the join path
// needs the result to classify the player.
type Bridge struct {
	players  repository.PlayerRepository
	items    repository.ItemRepository
	messages repository.MessageRepository
	presence repository.PresenceRepository
	logger   *zap.Logger

	sem     chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closing bool

	writeTimeout time.Duration
}

// New creates a Bridge over the given repositories.
func New(
	players repository.PlayerRepository,
	items repository.ItemRepository,
	messages repository.MessageRepository,
	presence repository.PresenceRepository,
	cfg Config,
	logger *zap.Logger,
) *Bridge {
	maxWrites := cfg.MaxConcurrentWrites
	if maxWrites <= 0 {
		maxWrites = 32
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Bridge{
		players:      players,
		items:        items,
		messages:     messages,
		presence:     presence,
		logger:       logger.Named("PersistenceBridge"),
		sem:          make(chan struct{}, maxWrites),
		writeTimeout: timeout,
	}
}

// FindPlayer queries the durable store for a player record.
func (b *Bridge) FindPlayer(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error) {
	return b.players.FindByID(ctx, id)
}

// submit runs fn on the worker pool. The caller returns immediately; the
// write waits for a pool slot in its own goroutine, runs with its own
// timeout context and reports failure only to the log and the counters.
func (b *Bridge) submit(op string, fields []zap.Field, fn func(ctx context.Context) error) {
	b.mu.Lock()
	if b.closing {
		b.mu.Unlock()
		b.logger.Warn("Dropping persistence write, bridge is shutting down", zap.String("op", op))
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	writesTotal.WithLabelValues(op).Inc()

	go func() {
		defer b.wg.Done()
		b.sem <- struct{}{}
		defer func() { <-b.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			writeFailuresTotal.WithLabelValues(op).Inc()
			// Запись не повторяется: in-memory состояние остаётся авторитетным.
			b.logger.Warn("Best-effort persistence write failed",
				append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)...)
		}
	}()
}

// UpsertPlayerState asynchronously writes progress fields back to the store.
func (b *Bridge) UpsertPlayerState(id uuid.UUID, update models.PlayerStateUpdate) {
	b.submit("upsert_player_state", []zap.Field{zap.String("playerID", id.String())}, func(ctx context.Context) error {
		return b.players.UpdateState(ctx, id, update)
	})
}

// InsertRoomMessage asynchronously persists a chat line keyed by zone.
func (b *Bridge) InsertRoomMessage(id uuid.UUID, text, roomKey string) {
	b.submit("insert_room_message", []zap.Field{zap.String("playerID", id.String()), zap.String("roomKey", roomKey)}, func(ctx context.Context) error {
		return b.messages.InsertRoomMessage(ctx, id, text, roomKey)
	})
}

// SetOnlineStatus asynchronously dual-writes the online flag: the durable
// record in postgres and the volatile presence entry in redis.
func (b *Bridge) SetOnlineStatus(id uuid.UUID, online bool, zone string) {
	b.submit("set_online_status", []zap.Field{zap.String("playerID", id.String()), zap.Bool("online", online)}, func(ctx context.Context) error {
		var presErr error
		if online {
			presErr = b.presence.SetOnline(ctx, id, zone)
		} else {
			presErr = b.presence.SetOffline(ctx, id)
		}
		pgErr := b.players.SetOnline(ctx, id, online)
		return errors.Join(presErr, pgErr)
	})
}

// GrantItem asynchronously inserts an item into the player's inventory.
func (b *Bridge) GrantItem(playerID uuid.UUID, itemID string) {
	b.submit("grant_item", []zap.Field{zap.String("playerID", playerID.String()), zap.String("itemID", itemID)}, func(ctx context.Context) error {
		return b.items.AddPlayerItem(ctx, playerID, itemID)
	})
}

// UpdatePresenceZone asynchronously moves the player's presence entry to a new zone.
func (b *Bridge) UpdatePresenceZone(id uuid.UUID, zone string) {
	b.submit("update_presence_zone", []zap.Field{zap.String("playerID", id.String()), zap.String("zone", zone)}, func(ctx context.Context) error {
		return b.presence.UpdateZone(ctx, id, zone)
	})
}

// Shutdown drains in-flight writes or gives up when the context expires.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closing = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("timed out waiting for persistence writes to drain")
	}
}
