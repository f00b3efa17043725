// Package registry implements the concurrent-safe mapping from connection
// identity to live player state.
package registry

import (
	"sync"

	"go.uber.org/zap"

	"world-server/internal/models"
)

// Registry owns every active Player. Insert/remove are guarded by an RWMutex;
// per-player field mutation is guarded by the Player's own lock, so roster
// snapshots never observe a half-updated player.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*models.Player
	logger  *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		players: make(map[string]*models.Player),
		logger:  logger.Named("Registry"),
	}
}

// Join inserts the player keyed by its connection id. An existing entry for
// the same connection is replaced; старое состояние при этом отбрасывается.
func (r *Registry) Join(player *models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[player.ConnID]; ok {
		r.logger.Warn("Replacing existing player for connection", zap.String("connID", player.ConnID))
	}
	r.players[player.ConnID] = player
}

// Get returns the player for a connection.
func (r *Registry) Get(connID string) (*models.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[connID]
	return p, ok
}

// Remove deletes the player for a connection and returns it. A second remove
// for the same connection is a no-op, not an error.
func (r *Registry) Remove(connID string) (*models.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[connID]
	if ok {
		delete(r.players, connID)
	}
	return p, ok
}

// Len returns the number of active players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Snapshot returns a point-in-time projection of every active player,
// safe to iterate while the registry keeps mutating.
func (r *Registry) Snapshot() []models.PlayerView {
	r.mu.RLock()
	players := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	r.mu.RUnlock()

	// View() берёт пер-игровой лок уже вне лока реестра.
	views := make([]models.PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, p.View())
	}
	return views
}

// Status aggregates the registry into the read-only report exposed over HTTP.
func (r *Registry) Status() models.StatusReport {
	views := r.Snapshot()
	report := models.StatusReport{
		Active:  len(views),
		ByZone:  make(map[string]int),
		ByLevel: make(map[int]int),
	}
	for _, v := range views {
		if v.Temporary {
			report.Temporary++
		} else {
			report.Persisted++
		}
		report.ByZone[v.Zone]++
		report.ByLevel[v.Level]++
	}
	return report
}
