package service_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"world-server/internal/models"
	"world-server/internal/registry"
	"world-server/internal/service"
	"world-server/internal/service/mocks"
	"world-server/internal/world"
)

// fakeSender records every outbound event for assertions.
type fakeSender struct {
	mu     sync.Mutex
	events []sentEvent
}

type sentEvent struct {
	kind    string // "to", "broadcast", "except"
	connID  string
	event   string
	payload any
}

func (f *fakeSender) SendTo(connID string, event string, payload any) {
	f.record(sentEvent{kind: "to", connID: connID, event: event, payload: payload})
}

func (f *fakeSender) Broadcast(event string, payload any) {
	f.record(sentEvent{kind: "broadcast", event: event, payload: payload})
}

func (f *fakeSender) BroadcastExcept(connID string, event string, payload any) {
	f.record(sentEvent{kind: "except", connID: connID, event: event, payload: payload})
}

func (f *fakeSender) record(e sentEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeSender) byEvent(event string) []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEvent
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSender) single(t *testing.T, event string) sentEvent {
	t.Helper()
	matches := f.byEvent(event)
	require.Len(t, matches, 1, "expected exactly one %q event", event)
	return matches[0]
}

func testParams() service.Params {
	p := service.DefaultParams()
	// Детерминированные значения для тестов
	p.TrainXPMin = 100
	p.TrainXPMax = 100
	p.DistanceSampleChance = 0
	p.FindTimeout = time.Second
	return p
}

type fixture struct {
	svc      *service.Service
	registry *registry.Registry
	sender   *fakeSender
	bridge   *mocks.Bridge
}

func newFixture(params service.Params) *fixture {
	reg := registry.New(zap.NewNop())
	sender := &fakeSender{}
	bridge := new(mocks.Bridge)
	svc := service.New(reg, world.Default(), bridge, sender, params, zap.NewNop())
	return &fixture{svc: svc, registry: reg, sender: sender, bridge: bridge}
}

// addPlayer inserts a live player directly, bypassing the join path.
func (f *fixture) addPlayer(p *models.Player) *models.Player {
	if p.Skills == nil {
		p.Skills = map[string]int{"combat": 10}
	}
	if p.Level == 0 {
		p.Level = 1
	}
	f.registry.Join(p)
	return p
}

func TestHandleJoin(t *testing.T) {
	t.Run("empty user id joins as temporary", func(t *testing.T) {
		f := newFixture(testParams())

		f.svc.HandleJoin("c1", models.JoinRequest{Name: "Wanderer"})

		joinResult := f.sender.single(t, models.EventJoinResult)
		assert.Equal(t, "c1", joinResult.connID)
		result, ok := joinResult.payload.(models.JoinResult)
		require.True(t, ok)
		assert.True(t, result.Success)
		assert.True(t, result.Player.Temporary)
		assert.Equal(t, "Wanderer", result.Player.Name)
		assert.Equal(t, "plaza", result.Player.Zone)

		f.sender.single(t, models.EventWorldSnapshot)
		f.sender.single(t, models.EventNPCCatalog)

		roster := f.sender.single(t, models.EventRosterUpdate)
		assert.Equal(t, "broadcast", roster.kind)

		f.bridge.AssertNotCalled(t, "FindPlayer", mock.Anything, mock.Anything)
		f.bridge.AssertNotCalled(t, "SetOnlineStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed user id falls back to temporary without lookup", func(t *testing.T) {
		f := newFixture(testParams())

		f.svc.HandleJoin("c1", models.JoinRequest{UserID: "not-a-uuid", Name: "X"})

		result := f.sender.single(t, models.EventJoinResult).payload.(models.JoinResult)
		assert.True(t, result.Player.Temporary)
		f.bridge.AssertNotCalled(t, "FindPlayer", mock.Anything, mock.Anything)
	})

	t.Run("missing record falls back to temporary", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.bridge.On("FindPlayer", mock.Anything, uid).Return(nil, models.ErrNotFound).Once()

		f.svc.HandleJoin("c1", models.JoinRequest{UserID: uid.String()})

		result := f.sender.single(t, models.EventJoinResult).payload.(models.JoinResult)
		assert.True(t, result.Player.Temporary)
		assert.Equal(t, "Traveler", result.Player.Name)
		f.bridge.AssertExpectations(t)
	})

	t.Run("found record joins as persisted", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		avatar := "avatar_knight"
		rec := &models.PlayerRecord{
			ID:         uid,
			Name:       "Ayla",
			Level:      2,
			Experience: 4200,
			Coins:      750,
			Skills:     map[string]int{"combat": 14},
			AvatarID:   &avatar,
		}
		f.bridge.On("FindPlayer", mock.Anything, uid).Return(rec, nil).Once()
		f.bridge.On("SetOnlineStatus", uid, true, "plaza").Return().Once()

		f.svc.HandleJoin("c1", models.JoinRequest{UserID: uid.String()})

		result := f.sender.single(t, models.EventJoinResult).payload.(models.JoinResult)
		assert.False(t, result.Player.Temporary)
		assert.Equal(t, "Ayla", result.Player.Name)
		// Уровень пересчитан из опыта: 4200 XP — это уровень 5
		assert.Equal(t, 5, result.Player.Level)
		assert.Equal(t, avatar, result.Player.Avatar)

		p, ok := f.registry.Get("c1")
		require.True(t, ok)
		assert.Equal(t, 750, p.Coins)

		f.bridge.AssertExpectations(t)
	})

	t.Run("store failure falls back to temporary", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.bridge.On("FindPlayer", mock.Anything, uid).Return(nil, assert.AnError).Once()

		f.svc.HandleJoin("c1", models.JoinRequest{UserID: uid.String(), Name: "Y"})

		result := f.sender.single(t, models.EventJoinResult).payload.(models.JoinResult)
		assert.True(t, result.Player.Temporary)
		f.bridge.AssertNotCalled(t, "SetOnlineStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleMove(t *testing.T) {
	t.Run("movement broadcast skips the mover", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, X: 900, Y: 900, Zone: "plaza"})

		f.svc.HandleMove("c1", models.MoveRequest{X: 910, Y: 905, Direction: "right", Moving: true})

		moved := f.sender.single(t, models.EventPlayerMoved)
		assert.Equal(t, "except", moved.kind)
		assert.Equal(t, "c1", moved.connID)
		payload := moved.payload.(models.PlayerMoved)
		assert.Equal(t, 910.0, payload.X)
		assert.Equal(t, models.DirectionRight, payload.Direction)

		assert.Empty(t, f.sender.byEvent(models.EventZoneChanged))
	})

	t.Run("zone change notifies the mover once", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, X: 900, Y: 900, Zone: "plaza"})

		f.svc.HandleMove("c1", models.MoveRequest{X: 100, Y: 100, Direction: "left", Moving: true})

		changed := f.sender.single(t, models.EventZoneChanged)
		assert.Equal(t, "to", changed.kind)
		assert.Equal(t, "c1", changed.connID)
		assert.Equal(t, "training grounds", changed.payload.(models.ZoneChanged).Zone)

		// Повторное движение внутри той же зоны — без уведомления
		f.svc.HandleMove("c1", models.MoveRequest{X: 110, Y: 110, Direction: "left", Moving: true})
		assert.Len(t, f.sender.byEvent(models.EventZoneChanged), 1)
	})

	t.Run("move for unknown connection is dropped", func(t *testing.T) {
		f := newFixture(testParams())
		f.svc.HandleMove("ghost", models.MoveRequest{X: 1, Y: 1})
		assert.Empty(t, f.sender.byEvent(models.EventPlayerMoved))
	})

	t.Run("persisted mover updates presence zone", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.addPlayer(&models.Player{ConnID: "c1", UserID: uid.String(), X: 900, Y: 900, Zone: "plaza"})
		f.bridge.On("UpdatePresenceZone", uid, "training grounds").Return().Once()

		f.svc.HandleMove("c1", models.MoveRequest{X: 100, Y: 100, Direction: "up", Moving: true})

		f.bridge.AssertExpectations(t)
	})
}

func TestHandleInteractNPC(t *testing.T) {
	// Master Orin стоит в точке (300, 300)
	t.Run("dialog within radius", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, X: 320, Y: 300, Zone: "training grounds"})

		f.svc.HandleInteractNPC("c1", models.InteractRequest{NPCID: "npc_trainer_orin"})

		dialog := f.sender.single(t, models.EventNPCDialog)
		assert.Equal(t, "to", dialog.kind)
		payload := dialog.payload.(models.NPCDialog)
		assert.Equal(t, "Master Orin", payload.Name)
		assert.NotEmpty(t, payload.Dialog)
	})

	t.Run("too far away", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, X: 1900, Y: 1900, Zone: "silver lake"})

		f.svc.HandleInteractNPC("c1", models.InteractRequest{NPCID: "npc_trainer_orin"})

		errEvent := f.sender.single(t, models.EventInteractionError)
		assert.Equal(t, "c1", errEvent.connID)
		assert.Equal(t, "too far away", errEvent.payload.(models.InteractionError).Reason)
		assert.Empty(t, f.sender.byEvent(models.EventNPCDialog))
	})

	t.Run("unknown npc is dropped", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, X: 300, Y: 300})

		f.svc.HandleInteractNPC("c1", models.InteractRequest{NPCID: "npc_missing"})

		assert.Empty(t, f.sender.events)
	})
}

func TestHandleActionTrain(t *testing.T) {
	t.Run("level up crosses threshold and broadcasts", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{
			ConnID: "c1", Temporary: true, Name: "Ayla",
			Level: 1, Experience: 950, Coins: 40,
			Skills: map[string]int{"combat": 10},
		})

		f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionTrain})

		result := f.sender.single(t, models.EventActionResult)
		assert.Equal(t, "c1", result.connID)
		actionResult := result.payload.(models.ActionResult)
		assert.True(t, actionResult.Success)
		outcome := actionResult.Result.(models.TrainingOutcome)
		assert.Equal(t, 100, outcome.XPGained)
		assert.Equal(t, 1050, outcome.Experience)
		assert.True(t, outcome.LeveledUp)
		assert.Equal(t, 2, outcome.NewLevel)
		assert.Equal(t, 40+250, outcome.Coins)

		levelUp := f.sender.single(t, models.EventLevelUp)
		assert.Equal(t, "except", levelUp.kind)
		assert.Equal(t, 2, levelUp.payload.(models.LevelUp).Level)
	})

	t.Run("no level up stays quiet", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Level: 1, Experience: 0, Skills: map[string]int{}})

		f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionTrain})

		assert.Empty(t, f.sender.byEvent(models.EventLevelUp))
		outcome := f.sender.single(t, models.EventActionResult).payload.(models.ActionResult).Result.(models.TrainingOutcome)
		assert.False(t, outcome.LeveledUp)
	})

	t.Run("persisted player progress is written back", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.addPlayer(&models.Player{
			ConnID: "c1", UserID: uid.String(),
			Level: 1, Experience: 0, Skills: map[string]int{},
		})
		f.bridge.On("UpsertPlayerState", uid, mock.MatchedBy(func(u models.PlayerStateUpdate) bool {
			return u.Level != nil && *u.Experience == 100 && u.TrainingSessions == 1
		})).Return().Once()

		f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionTrain})

		f.bridge.AssertExpectations(t)
	})
}

func TestHandleActionQuest(t *testing.T) {
	f := newFixture(testParams())
	uid := uuid.New()
	f.addPlayer(&models.Player{
		ConnID: "c1", UserID: uid.String(),
		Level: 1, Experience: 700, Coins: 10, Skills: map[string]int{},
	})
	f.bridge.On("UpsertPlayerState", uid, mock.Anything).Return().Once()
	f.bridge.On("GrantItem", uid, "item_quest_cache").Return().Once()

	payload, _ := json.Marshal(models.QuestAction{QuestID: "quest_first_steps"})
	f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionQuest, Payload: payload})

	outcome := f.sender.single(t, models.EventActionResult).payload.(models.ActionResult).Result.(models.QuestOutcome)
	assert.Equal(t, "quest_first_steps", outcome.QuestID)
	assert.Equal(t, 500, outcome.XPGained)
	assert.Equal(t, 1200, outcome.Experience)
	assert.Equal(t, 2, outcome.Level)
	assert.Equal(t, "item_quest_cache", outcome.ItemID)

	f.bridge.AssertExpectations(t)
}

func TestHandleActionTrade(t *testing.T) {
	t.Run("successful trade deducts coins", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Coins: 100, Skills: map[string]int{}})

		payload, _ := json.Marshal(models.TradeAction{ItemID: "item_iron_sword", Cost: 60})
		f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionTrade, Payload: payload})

		result := f.sender.single(t, models.EventActionResult).payload.(models.ActionResult)
		assert.True(t, result.Success)
		outcome := result.Result.(models.TradeOutcome)
		assert.Equal(t, 40, outcome.Coins)
	})

	t.Run("insufficient funds leaves balance untouched", func(t *testing.T) {
		f := newFixture(testParams())
		p := f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Coins: 30, Skills: map[string]int{}})

		payload, _ := json.Marshal(models.TradeAction{ItemID: "item_iron_sword", Cost: 60})
		f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionTrade, Payload: payload})

		result := f.sender.single(t, models.EventActionResult).payload.(models.ActionResult)
		assert.False(t, result.Success)
		assert.Equal(t, "insufficient funds", result.Error)
		assert.Equal(t, 30, p.Coins)
	})
}

func TestHandleActionSocial(t *testing.T) {
	f := newFixture(testParams())
	f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Name: "Ayla", Skills: map[string]int{}})

	payload, _ := json.Marshal(models.SocialAction{Action: "wave"})
	f.svc.HandleAction("c1", models.ActionRequest{Type: models.ActionSocial, Payload: payload})

	emote := f.sender.single(t, models.EventEmoteBroadcast)
	assert.Equal(t, "except", emote.kind)
	assert.Equal(t, "wave", emote.payload.(models.EmoteBroadcast).Emote)
}

func TestHandleActionUnknownType(t *testing.T) {
	f := newFixture(testParams())
	f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})

	f.svc.HandleAction("c1", models.ActionRequest{Type: "fly"})

	assert.Empty(t, f.sender.events)
}

func TestHandleChat(t *testing.T) {
	t.Run("plain text is broadcast to everyone", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Name: "Ayla", Zone: "plaza", Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "  hello world  "})

		msg := f.sender.single(t, models.EventChatMessage)
		assert.Equal(t, "broadcast", msg.kind)
		chat := msg.payload.(models.ChatMessage)
		assert.Equal(t, "Ayla", chat.From)
		assert.Equal(t, "hello world", chat.Text)
	})

	t.Run("persisted chat is stored as a room message", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.addPlayer(&models.Player{ConnID: "c1", UserID: uid.String(), Name: "Ayla", Zone: "plaza", Skills: map[string]int{}})
		f.bridge.On("InsertRoomMessage", uid, "hello", "plaza").Return().Once()

		f.svc.HandleChat("c1", models.ChatRequest{Text: "hello"})

		f.bridge.AssertExpectations(t)
	})

	t.Run("blank text is dropped", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "   "})

		assert.Empty(t, f.sender.events)
	})

	t.Run("status command replies to the requester only", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{
			ConnID: "c1", Temporary: true, Name: "Ayla",
			Level: 3, Experience: 2500, Coins: 900, Zone: "plaza",
			Skills: map[string]int{},
		})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "/status"})

		reply := f.sender.single(t, models.EventSystemMessage)
		assert.Equal(t, "to", reply.kind)
		assert.Equal(t, "c1", reply.connID)
		assert.Contains(t, reply.payload.(models.SystemMessage).Text, "level 3")
		assert.Empty(t, f.sender.byEvent(models.EventChatMessage))
	})

	t.Run("emote command broadcasts and confirms", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Name: "Ayla", Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "/emote waves cheerfully"})

		emote := f.sender.single(t, models.EventEmoteBroadcast)
		assert.Equal(t, "except", emote.kind)
		assert.Equal(t, "waves cheerfully", emote.payload.(models.EmoteBroadcast).Emote)

		reply := f.sender.single(t, models.EventSystemMessage)
		assert.Equal(t, "You waves cheerfully", reply.payload.(models.SystemMessage).Text)
	})

	t.Run("command names are case-insensitive", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Zone: "plaza", Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "/ZONE"})

		reply := f.sender.single(t, models.EventSystemMessage)
		assert.Equal(t, "You are in plaza", reply.payload.(models.SystemMessage).Text)
	})

	t.Run("unrecognized command gets a targeted reply", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "/teleport plaza"})

		reply := f.sender.single(t, models.EventSystemMessage)
		assert.Equal(t, "Unrecognized command: /teleport. Try /help.", reply.payload.(models.SystemMessage).Text)
	})

	t.Run("online command reports registry size", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})
		f.addPlayer(&models.Player{ConnID: "c2", Temporary: true, Skills: map[string]int{}})

		f.svc.HandleChat("c1", models.ChatRequest{Text: "/online"})

		reply := f.sender.single(t, models.EventSystemMessage)
		assert.Equal(t, "2 players online", reply.payload.(models.SystemMessage).Text)
	})
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("removes player and broadcasts the shrunken roster", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})
		f.addPlayer(&models.Player{ConnID: "c2", Temporary: true, Skills: map[string]int{}})

		f.svc.HandleDisconnect("c1")

		assert.Equal(t, 1, f.registry.Len())
		roster := f.sender.single(t, models.EventRosterUpdate)
		assert.Len(t, roster.payload.(models.RosterUpdate).Players, 1)
	})

	t.Run("second disconnect is a no-op", func(t *testing.T) {
		f := newFixture(testParams())
		f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Skills: map[string]int{}})

		f.svc.HandleDisconnect("c1")
		f.svc.HandleDisconnect("c1")

		assert.Len(t, f.sender.byEvent(models.EventRosterUpdate), 1)
	})

	t.Run("persisted player is flagged offline", func(t *testing.T) {
		f := newFixture(testParams())
		uid := uuid.New()
		f.addPlayer(&models.Player{ConnID: "c1", UserID: uid.String(), Skills: map[string]int{}})
		f.bridge.On("SetOnlineStatus", uid, false, "").Return().Once()

		f.svc.HandleDisconnect("c1")

		f.bridge.AssertExpectations(t)
	})
}

func TestHandleEmote(t *testing.T) {
	f := newFixture(testParams())
	f.addPlayer(&models.Player{ConnID: "c1", Temporary: true, Name: "Ayla", Skills: map[string]int{}})

	f.svc.HandleEmote("c1", models.EmoteRequest{Name: "dance"})

	emote := f.sender.single(t, models.EventEmoteBroadcast)
	assert.Equal(t, "except", emote.kind)
	assert.Equal(t, "dance", emote.payload.(models.EmoteBroadcast).Emote)

	// Пустой emote отбрасывается
	f.svc.HandleEmote("c1", models.EmoteRequest{})
	assert.Len(t, f.sender.byEvent(models.EventEmoteBroadcast), 1)
}

func TestHandlePing(t *testing.T) {
	f := newFixture(testParams())

	f.svc.HandlePing("c1")

	pong := f.sender.single(t, models.EventPong)
	assert.Equal(t, "c1", pong.connID)
}
