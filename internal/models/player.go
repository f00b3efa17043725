package models

import (
	"math"
	"sync"
)

// ExperiencePerLevel определяет сколько опыта нужно на один уровень.
// level = experience/ExperiencePerLevel + 1, уровень никогда не убывает.
const ExperiencePerLevel = 1000

// Direction is a movement direction reported by the client.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionNone  Direction = "none"
)

// ParseDirection returns a valid direction, falling back to "none"
// for anything the client should not have sent.
func ParseDirection(s string) Direction {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return Direction(s)
	default:
		return DirectionNone
	}
}

// LevelForExperience computes the level for a given experience total.
func LevelForExperience(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// Stats holds the base attributes copied from the durable player record.
type Stats struct {
	Strength  int `json:"strength"`
	Agility   int `json:"agility"`
	Intellect int `json:"intellect"`
	Stamina   int `json:"stamina"`
}

// Player is the authoritative in-memory state for one active connection.
//
// Все изменяемые поля защищены внутренним мьютексом: мутации идут только
// через методы ниже, снимки для рассылок — через View(). Прямое чтение
// живых полей из других горутин запрещено.
type Player struct {
	mu sync.Mutex

	// Identity. ConnID is process-local; UserID is the durable store id and
	// is empty for temporary players.
	ConnID string
	UserID string

	// Profile.
	Name   string
	Color  string
	Avatar string
	Club   string
	Stats  Stats
	Skills map[string]int

	Level            int
	Experience       int
	Coins            int
	TrainingSessions int

	// Live state.
	X         float64
	Y         float64
	Direction Direction
	Moving    bool
	Zone      string

	// Temporary players have no durable record; their state is never persisted.
	Temporary bool

	// Cumulative distance moved since the last sampled persistence write.
	pendingDistance float64
}

// PlayerView is the reduced projection broadcast in roster updates.
type PlayerView struct {
	ConnID    string    `json:"connId"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Avatar    string    `json:"avatar,omitempty"`
	Level     int       `json:"level"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Direction Direction `json:"direction"`
	Moving    bool      `json:"moving"`
	Zone      string    `json:"zone"`
	Temporary bool      `json:"temporary"`
}

// View returns a consistent point-in-time copy of the broadcastable fields.
func (p *Player) View() PlayerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PlayerView{
		ConnID:    p.ConnID,
		UserID:    p.UserID,
		Name:      p.Name,
		Color:     p.Color,
		Avatar:    p.Avatar,
		Level:     p.Level,
		X:         p.X,
		Y:         p.Y,
		Direction: p.Direction,
		Moving:    p.Moving,
		Zone:      p.Zone,
		Temporary: p.Temporary,
	}
}

// ApplyMovement updates position, direction and the moving flag atomically
// and returns the traveled euclidean distance for opportunistic persistence.
func (p *Player) ApplyMovement(x, y float64, dir Direction, moving bool) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	dist := math.Hypot(x-p.X, y-p.Y)
	p.X = x
	p.Y = y
	p.Direction = dir
	p.Moving = moving
	p.pendingDistance += dist
	return dist
}

// UpdateZone replaces the cached zone name and reports whether it changed.
func (p *Player) UpdateZone(zone string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Zone == zone {
		return false
	}
	p.Zone = zone
	return true
}

// Position returns the current coordinates.
func (p *Player) Position() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.X, p.Y
}

// CurrentZone returns the cached zone name.
func (p *Player) CurrentZone() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Zone
}

// DrainPendingDistance returns the accumulated distance and resets it.
// Вызывается когда сработала выборочная запись дистанции в хранилище.
func (p *Player) DrainPendingDistance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.pendingDistance
	p.pendingDistance = 0
	return d
}

// TrainingOutcome describes the result of one training action.
type TrainingOutcome struct {
	XPGained   int  `json:"xpGained"`
	Experience int  `json:"experience"`
	Level      int  `json:"level"`
	LeveledUp  bool `json:"leveledUp"`
	NewLevel   int  `json:"newLevel,omitempty"`
	Coins      int  `json:"coins"`
}

// ApplyTraining grants experience, recomputes the level and applies the
// level-up bonuses when a threshold was crossed. The level never decreases.
func (p *Player) ApplyTraining(xpGain, coinBonus, skillBonus int) TrainingOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Experience += xpGain
	p.TrainingSessions++

	out := TrainingOutcome{
		XPGained:   xpGain,
		Experience: p.Experience,
	}

	if newLevel := LevelForExperience(p.Experience); newLevel > p.Level {
		p.Level = newLevel
		p.Coins += coinBonus
		for skill := range p.Skills {
			p.Skills[skill] += skillBonus
		}
		out.LeveledUp = true
		out.NewLevel = newLevel
	}

	out.Level = p.Level
	out.Coins = p.Coins
	return out
}

// QuestOutcome describes the result of one quest completion.
type QuestOutcome struct {
	QuestID    string `json:"questId,omitempty"`
	XPGained   int    `json:"xpGained"`
	CoinsGained int   `json:"coinsGained"`
	ItemID     string `json:"itemId,omitempty"`
	Experience int    `json:"experience"`
	Level      int    `json:"level"`
	Coins      int    `json:"coins"`
}

// ApplyQuestReward grants the fixed quest reward and recomputes the level.
func (p *Player) ApplyQuestReward(xp, coins int) QuestOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Experience += xp
	p.Coins += coins
	if newLevel := LevelForExperience(p.Experience); newLevel > p.Level {
		p.Level = newLevel
	}

	return QuestOutcome{
		XPGained:    xp,
		CoinsGained: coins,
		Experience:  p.Experience,
		Level:       p.Level,
		Coins:       p.Coins,
	}
}

// SpendCoins deducts cost when the balance covers it. The balance never
// goes negative; a failed trade leaves it untouched.
func (p *Player) SpendCoins(cost int) (remaining int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cost < 0 || p.Coins < cost {
		return p.Coins, false
	}
	p.Coins -= cost
	return p.Coins, true
}

// ProgressSnapshot returns the persistable progress fields as one consistent read.
func (p *Player) ProgressSnapshot() (level, experience, coins int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Level, p.Experience, p.Coins
}
