package models

import (
	"encoding/json"
	"time"
)

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types.
const (
	EventJoin        = "join"
	EventMove        = "move"
	EventInteractNPC = "interact_npc"
	EventChat        = "chat"
	EventAction      = "action"
	EventEmote       = "emote"
	EventPing        = "ping"
)

// Outbound event types.
const (
	EventWorldSnapshot    = "world_snapshot"
	EventNPCCatalog       = "npc_catalog"
	EventJoinResult       = "join_result"
	EventRosterUpdate     = "roster_update"
	EventPlayerMoved      = "player_moved"
	EventZoneChanged      = "zone_changed"
	EventNPCDialog        = "npc_dialog"
	EventInteractionError = "interaction_error"
	EventChatMessage      = "chat_message"
	EventSystemMessage    = "system_message"
	EventLevelUp          = "level_up"
	EventActionResult     = "action_result"
	EventEmoteBroadcast   = "emote_broadcast"
	EventPong             = "pong"
)

// Action tags accepted by the dispatcher. The set is closed; anything else
// is logged and dropped.
const (
	ActionTrain  = "train"
	ActionQuest  = "quest"
	ActionTrade  = "trade"
	ActionSocial = "social"
)

// JoinRequest carries the optional durable identity supplied on join.
type JoinRequest struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
}

// MoveRequest is a position update from the client.
type MoveRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
	Moving    bool    `json:"moving"`
}

// InteractRequest names the NPC the player wants to talk to.
type InteractRequest struct {
	NPCID string `json:"npcId"`
}

// ChatRequest is a raw chat line; lines starting with the command prefix
// are interpreted as slash commands.
type ChatRequest struct {
	Text string `json:"text"`
}

// ActionRequest is a tagged action with its variant-specific payload.
type ActionRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TrainAction is the payload of a "train" action.
type TrainAction struct {
	Skill string `json:"skill,omitempty"`
}

// QuestAction is the payload of a "quest" action.
type QuestAction struct {
	QuestID string `json:"questId"`
}

// TradeAction is the payload of a "trade" action.
type TradeAction struct {
	ItemID string `json:"itemId,omitempty"`
	Cost   int    `json:"cost"`
}

// SocialAction is the payload of a "social" action.
type SocialAction struct {
	Action string `json:"action"`
}

// EmoteRequest is a standalone emote event.
type EmoteRequest struct {
	Name string `json:"name"`
}

// JoinResult is sent to the joining connection only.
type JoinResult struct {
	Success bool       `json:"success"`
	Player  PlayerView `json:"player,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// RosterUpdate is the full reduced projection of every active player.
type RosterUpdate struct {
	Players []PlayerView `json:"players"`
}

// PlayerMoved is broadcast to every connection except the mover.
type PlayerMoved struct {
	ConnID    string    `json:"connId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
	Moving    bool      `json:"moving"`
}

// ZoneChanged is sent to the moving connection only.
type ZoneChanged struct {
	Zone string `json:"zone"`
}

// NPCDialog is the successful interaction reply, requester only.
type NPCDialog struct {
	NPCID    string   `json:"npcId"`
	Name     string   `json:"name"`
	Type     string   `json:"npcType"`
	Dialog   []string `json:"dialog"`
	QuestIDs []string `json:"questIds,omitempty"`
	ItemIDs  []string `json:"itemIds,omitempty"`
}

// InteractionError is the rejection reply, requester only.
type InteractionError struct {
	NPCID  string `json:"npcId"`
	Reason string `json:"reason"`
}

// ChatMessage is the structured broadcast form of a plain chat line.
type ChatMessage struct {
	ConnID    string    `json:"connId"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Level     int       `json:"level"`
	Zone      string    `json:"zone"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemMessage is a targeted system reply (command output, errors).
type SystemMessage struct {
	Text string `json:"text"`
}

// LevelUp is broadcast to every connection except the player who leveled.
type LevelUp struct {
	ConnID string `json:"connId"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
}

// ActionResult wraps a handler outcome sent back to the requester.
type ActionResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TradeOutcome is the result payload of a "trade" action.
type TradeOutcome struct {
	ItemID string `json:"itemId,omitempty"`
	Cost   int    `json:"cost"`
	Coins  int    `json:"coins"`
}

// EmoteBroadcast is fanned out to every connection except the sender.
type EmoteBroadcast struct {
	ConnID string `json:"connId"`
	Name   string `json:"name"`
	Emote  string `json:"emote"`
}

// StatusReport is the read-only aggregate surface exposed over HTTP.
type StatusReport struct {
	Active    int            `json:"active"`
	Temporary int            `json:"temporary"`
	Persisted int            `json:"persisted"`
	ByZone    map[string]int `json:"byZone"`
	ByLevel   map[int]int    `json:"byLevel"`
}
