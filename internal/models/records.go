package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerRecord is the durable player row with its nested stats, skills,
// equipped avatar and club affiliation, as returned by the data service.
type PlayerRecord struct {
	ID               uuid.UUID      `db:"id"`
	Name             string         `db:"name"`
	Level            int            `db:"level"`
	Experience       int            `db:"experience"`
	Coins            int            `db:"coins"`
	Skills           map[string]int `db:"-"`
	Stats            Stats          `db:"-"`
	AvatarID         *string        `db:"avatar_id"`
	ClubName         *string        `db:"club_name"`
	TrainingSessions int            `db:"training_sessions"`
	Distance         float64        `db:"distance_travelled"`
	Online           bool           `db:"online"`
}

// PlayerStateUpdate carries the best-effort fields written back to the store.
// Nil pointers leave the column untouched; the counters are deltas.
type PlayerStateUpdate struct {
	Level      *int
	Experience *int
	Coins      *int

	// TrainingSessions is added to the stored counter.
	TrainingSessions int
	// Distance is added to the stored cumulative distance.
	Distance float64
}

// AvatarRecord is one row of the player's avatar collection.
type AvatarRecord struct {
	ID       string    `db:"id" json:"id"`
	PlayerID uuid.UUID `db:"player_id" json:"playerId"`
	Name     string    `db:"name" json:"name"`
	Equipped bool      `db:"equipped" json:"equipped"`
}

// ClubRecord is the club a player owns or belongs to.
type ClubRecord struct {
	ID      string    `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"ownerId"`
	Name    string    `db:"name" json:"name"`
	Emblem  string    `db:"emblem" json:"emblem"`
}

// ItemRecord is one row of the global item catalog.
type ItemRecord struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Type        string `db:"type" json:"type"`
	Price       int    `db:"price" json:"price"`
	Description string `db:"description" json:"description"`
}

// PlayerItemRecord is one item owned by a player.
type PlayerItemRecord struct {
	ID         int64     `db:"id" json:"id"`
	PlayerID   uuid.UUID `db:"player_id" json:"playerId"`
	ItemID     string    `db:"item_id" json:"itemId"`
	Equipped   bool      `db:"equipped" json:"equipped"`
	AcquiredAt time.Time `db:"acquired_at" json:"acquiredAt"`
}

// MissionRecord is one row of the mission catalog.
type MissionRecord struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	RewardXP    int    `db:"reward_xp" json:"rewardXp"`
	RewardCoins int    `db:"reward_coins" json:"rewardCoins"`
}

// PlayerMissionRecord tracks one player's progress on a mission.
type PlayerMissionRecord struct {
	PlayerID  uuid.UUID `db:"player_id" json:"playerId"`
	MissionID string    `db:"mission_id" json:"missionId"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RoomMessage is a persisted chat line keyed by the zone it was spoken in.
type RoomMessage struct {
	PlayerID uuid.UUID `db:"player_id" json:"playerId"`
	Text     string    `db:"text" json:"text"`
	RoomKey  string    `db:"room_key" json:"roomKey"`
	SentAt   time.Time `db:"sent_at" json:"sentAt"`
}
