package models

// UnknownZone is the sentinel returned when coordinates match no declared zone.
const UnknownZone = "unknown territory"

// Zone is an immutable axis-aligned rectangle of the world map.
// Zones are declared once at startup and never mutated.
type Zone struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the zone, bounds inclusive.
func (z Zone) Contains(x, y float64) bool {
	return x >= z.X && x <= z.X+z.Width && y >= z.Y && y <= z.Y+z.Height
}

// NPC types supported by the catalog.
const (
	NPCTypeTrainer    = "trainer"
	NPCTypeMerchant   = "merchant"
	NPCTypeQuestGiver = "quest_giver"
)

// NPC is an immutable catalog entry loaded at startup.
type NPC struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Dialog []string `json:"dialog"`

	// Type-specific payload: quest ids for quest givers, item ids for merchants.
	QuestIDs []string `json:"questIds,omitempty"`
	ItemIDs  []string `json:"itemIds,omitempty"`
}

// WorldBounds describes the playable area.
type WorldBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WorldSnapshot is sent verbatim to every newly joined connection.
// It never changes during the process lifetime.
type WorldSnapshot struct {
	Bounds WorldBounds `json:"bounds"`
	Zones  []Zone      `json:"zones"`
}
