package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"world-server/internal/models"
	"world-server/internal/registry"
)

func newPlayer(connID string) *models.Player {
	return &models.Player{ConnID: connID, Name: "p-" + connID, Level: 1, Zone: "plaza"}
}

func TestJoinGetRemove(t *testing.T) {
	r := registry.New(zap.NewNop())

	r.Join(newPlayer("c1"))
	require.Equal(t, 1, r.Len())

	p, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "p-c1", p.Name)

	_, ok = r.Get("c2")
	assert.False(t, ok)

	removed, ok := r.Remove("c1")
	require.True(t, ok)
	assert.Equal(t, "c1", removed.ConnID)
	assert.Equal(t, 0, r.Len())

	// Повторное удаление — no-op
	_, ok = r.Remove("c1")
	assert.False(t, ok)
}

func TestJoinReplacesExistingConnection(t *testing.T) {
	r := registry.New(zap.NewNop())

	r.Join(newPlayer("c1"))
	replacement := newPlayer("c1")
	replacement.Name = "replacement"
	r.Join(replacement)

	require.Equal(t, 1, r.Len())
	p, _ := r.Get("c1")
	assert.Equal(t, "replacement", p.Name)
}

func TestSnapshotIsDetached(t *testing.T) {
	r := registry.New(zap.NewNop())
	p := newPlayer("c1")
	r.Join(p)

	views := r.Snapshot()
	require.Len(t, views, 1)

	p.ApplyMovement(500, 500, models.DirectionUp, true)

	assert.Equal(t, 0.0, views[0].X)
}

func TestStatusAggregates(t *testing.T) {
	r := registry.New(zap.NewNop())

	a := newPlayer("c1")
	a.Zone = "plaza"
	a.Level = 1
	a.Temporary = true

	b := newPlayer("c2")
	b.Zone = "plaza"
	b.Level = 3

	c := newPlayer("c3")
	c.Zone = "arena"
	c.Level = 3

	r.Join(a)
	r.Join(b)
	r.Join(c)

	report := r.Status()

	assert.Equal(t, 3, report.Active)
	assert.Equal(t, 1, report.Temporary)
	assert.Equal(t, 2, report.Persisted)
	assert.Equal(t, 2, report.ByZone["plaza"])
	assert.Equal(t, 1, report.ByZone["arena"])
	assert.Equal(t, 2, report.ByLevel[3])
}

func TestConcurrentAccess(t *testing.T) {
	r := registry.New(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			connID := fmt.Sprintf("c%d", n)
			p := newPlayer(connID)
			r.Join(p)
			p.ApplyMovement(float64(n), float64(n), models.DirectionRight, true)
			_ = r.Snapshot()
			_ = r.Status()
			if n%2 == 0 {
				r.Remove(connID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
}
