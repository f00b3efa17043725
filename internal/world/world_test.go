package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-server/internal/models"
	"world-server/internal/world"
)

func testWorld() *world.World {
	zones := []models.Zone{
		{Name: "plaza", Type: "social", X: 0, Y: 0, Width: 100, Height: 100},
		{Name: "overlap", Type: "social", X: 50, Y: 50, Width: 100, Height: 100},
		{Name: "arena", Type: "combat", X: 300, Y: 300, Width: 50, Height: 50},
	}
	npcs := []models.NPC{
		{ID: "npc_a", Name: "A", Type: models.NPCTypeTrainer, X: 10, Y: 10},
	}
	return world.New(models.WorldBounds{Width: 1000, Height: 1000}, zones, npcs)
}

func TestResolve(t *testing.T) {
	w := testWorld()

	t.Run("point inside a single zone", func(t *testing.T) {
		assert.Equal(t, "arena", w.Resolve(320, 320))
	})

	t.Run("overlap resolves to the first declared zone", func(t *testing.T) {
		assert.Equal(t, "plaza", w.Resolve(60, 60))
	})

	t.Run("boundaries are inclusive", func(t *testing.T) {
		assert.Equal(t, "plaza", w.Resolve(0, 0))
		assert.Equal(t, "plaza", w.Resolve(100, 100))
		assert.Equal(t, "arena", w.Resolve(350, 350))
	})

	t.Run("point outside every zone yields the sentinel", func(t *testing.T) {
		assert.Equal(t, models.UnknownZone, w.Resolve(900, 900))
		assert.Equal(t, models.UnknownZone, w.Resolve(-5, -5))
	})

	t.Run("resolution is pure", func(t *testing.T) {
		first := w.Resolve(60, 60)
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, w.Resolve(60, 60))
		}
	})
}

func TestNPCLookup(t *testing.T) {
	w := testWorld()

	npc, ok := w.NPC("npc_a")
	require.True(t, ok)
	assert.Equal(t, "A", npc.Name)

	_, ok = w.NPC("npc_missing")
	assert.False(t, ok)
}

func TestDefaultCatalog(t *testing.T) {
	w := world.Default()

	require.NotEmpty(t, w.NPCs())
	for _, npc := range w.NPCs() {
		// Каждый NPC каталога должен стоять в известной зоне
		assert.NotEqual(t, models.UnknownZone, w.Resolve(npc.X, npc.Y), "npc %s", npc.ID)
	}

	snap := w.Snapshot()
	assert.NotEmpty(t, snap.Zones)
	assert.Equal(t, w.Bounds(), snap.Bounds)
}
