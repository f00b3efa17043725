package world

import "world-server/internal/models"

// Статичные данные карты. Зоны объявлены в порядке приоритета:
// при пересечении побеждает первая подходящая.

// DefaultBounds is the playable area of the default map.
var DefaultBounds = models.WorldBounds{Width: 2000, Height: 2000}

// StarterRegion is the rectangle new players spawn into.
var StarterRegion = models.Zone{
	Name: "plaza", Type: "social",
	X: 800, Y: 800, Width: 400, Height: 400,
}

// DefaultZones is the declared zone list of the default map.
var DefaultZones = []models.Zone{
	{Name: "plaza", Type: "social", X: 800, Y: 800, Width: 400, Height: 400},
	{Name: "training grounds", Type: "training", X: 0, Y: 0, Width: 600, Height: 600},
	{Name: "market district", Type: "commerce", X: 1400, Y: 0, Width: 600, Height: 600},
	{Name: "whispering forest", Type: "wilderness", X: 0, Y: 1300, Width: 700, Height: 700},
	{Name: "silver lake", Type: "wilderness", X: 1300, Y: 1300, Width: 700, Height: 700},
	{Name: "arena", Type: "combat", X: 700, Y: 100, Width: 500, Height: 400},
}

// DefaultNPCs is the NPC catalog of the default map.
var DefaultNPCs = []models.NPC{
	{
		ID: "npc_trainer_orin", Name: "Master Orin", Type: models.NPCTypeTrainer,
		X: 300, Y: 300,
		Dialog: []string{
			"Back again? Good.",
			"Strength is built one session at a time.",
			"Show me what you have learned.",
		},
	},
	{
		ID: "npc_merchant_tessa", Name: "Tessa", Type: models.NPCTypeMerchant,
		X: 1700, Y: 300,
		Dialog: []string{
			"Welcome, traveler!",
			"Everything on display is for sale. Coins up front.",
		},
		ItemIDs: []string{"item_health_potion", "item_iron_sword", "item_traveler_cloak"},
	},
	{
		ID: "npc_elder_maren", Name: "Elder Maren", Type: models.NPCTypeQuestGiver,
		X: 1000, Y: 950,
		Dialog: []string{
			"The plaza has been quiet lately.",
			"There is work for those willing to wander.",
		},
		QuestIDs: []string{"quest_first_steps", "quest_forest_herbs", "quest_lake_fishing"},
	},
}

// Default returns the built-in world map.
func Default() *World {
	return New(DefaultBounds, DefaultZones, DefaultNPCs)
}
