// Package world holds the static world map: zone geometry, world bounds and
// the NPC catalog. Everything here is immutable after construction.
package world

import (
	"world-server/internal/models"
)

// World is the loaded-once map geometry and NPC catalog.
type World struct {
	bounds models.WorldBounds
	zones  []models.Zone
	npcs   []models.NPC
	byID   map[string]models.NPC
}

// New builds a World from declared zones and NPCs. Zone order matters:
// Resolve picks the first rectangle containing a point.
func New(bounds models.WorldBounds, zones []models.Zone, npcs []models.NPC) *World {
	byID := make(map[string]models.NPC, len(npcs))
	for _, n := range npcs {
		byID[n.ID] = n
	}
	return &World{
		bounds: bounds,
		zones:  zones,
		npcs:   npcs,
		byID:   byID,
	}
}

// Resolve maps coordinates to a zone name. Linear scan in declared order,
// first match wins, bounds inclusive. Points outside every zone resolve to
// the sentinel zone.
func (w *World) Resolve(x, y float64) string {
	for _, z := range w.zones {
		if z.Contains(x, y) {
			return z.Name
		}
	}
	return models.UnknownZone
}

// NPC returns the catalog entry for the given id.
func (w *World) NPC(id string) (models.NPC, bool) {
	n, ok := w.byID[id]
	return n, ok
}

// NPCs returns the full catalog in declared order.
func (w *World) NPCs() []models.NPC {
	return w.npcs
}

// Bounds returns the playable area.
func (w *World) Bounds() models.WorldBounds {
	return w.bounds
}

// Snapshot returns the world description sent to every new connection.
func (w *World) Snapshot() models.WorldSnapshot {
	return models.WorldSnapshot{
		Bounds: w.bounds,
		Zones:  w.zones,
	}
}
