package service

import (
	"fmt"
	"strings"
	"time"

	"world-server/internal/models"
)

const commandPrefix = "/"

// HandleChat interprets a chat line. Lines starting with the command prefix
// become system replies to the requester (except /emote, which also
// broadcasts); plain text is wrapped into a structured message, broadcast to
// every connection and, for persisted players, stored as a room message.
func (s *Service) HandleChat(connID string, req models.ChatRequest) {
	p, ok := s.registry.Get(connID)
	if !ok {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, commandPrefix) {
		s.handleCommand(connID, p, text)
		return
	}

	view := p.View()
	s.sender.Broadcast(models.EventChatMessage, models.ChatMessage{
		ConnID:    connID,
		From:      view.Name,
		Text:      text,
		Level:     view.Level,
		Zone:      view.Zone,
		Timestamp: time.Now().UTC(),
	})

	// Запись в историю комнаты идёт после рассылки и никогда её не блокирует.
	if uid, persisted := durableID(p); persisted {
		s.bridge.InsertRoomMessage(uid, text, view.Zone)
	}
}

// HandleEmote fans a standalone emote event out to everyone else.
func (s *Service) HandleEmote(connID string, req models.EmoteRequest) {
	p, ok := s.registry.Get(connID)
	if !ok || req.Name == "" {
		return
	}
	s.sender.BroadcastExcept(connID, models.EventEmoteBroadcast, models.EmoteBroadcast{
		ConnID: connID,
		Name:   p.Name,
		Emote:  req.Name,
	})
}

// handleCommand parses `/command arg1 arg2...`. Command names are
// case-insensitive; anything unrecognized gets a targeted system reply.
func (s *Service) handleCommand(connID string, p *models.Player, text string) {
	fields := strings.Fields(strings.TrimPrefix(text, commandPrefix))
	if len(fields) == 0 {
		s.replySystem(connID, "Empty command. Try /help.")
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "status":
		view := p.View()
		level, experience, coins := p.ProgressSnapshot()
		s.replySystem(connID, fmt.Sprintf(
			"%s — level %d (%d XP), %d coins, in %s",
			view.Name, level, experience, coins, view.Zone,
		))

	case "emote":
		if len(args) == 0 {
			s.replySystem(connID, "Usage: /emote <action>")
			return
		}
		emote := strings.Join(args, " ")
		s.sender.BroadcastExcept(connID, models.EventEmoteBroadcast, models.EmoteBroadcast{
			ConnID: connID,
			Name:   p.Name,
			Emote:  emote,
		})
		s.replySystem(connID, fmt.Sprintf("You %s", emote))

	case "help":
		s.replySystem(connID, "Commands: /status /emote <action> /help /online /zone /pos")

	case "online":
		s.replySystem(connID, fmt.Sprintf("%d players online", s.registry.Len()))

	case "zone":
		s.replySystem(connID, fmt.Sprintf("You are in %s", p.CurrentZone()))

	case "pos":
		x, y := p.Position()
		s.replySystem(connID, fmt.Sprintf("Position: (%.1f, %.1f)", x, y))

	default:
		s.replySystem(connID, fmt.Sprintf("Unrecognized command: /%s. Try /help.", command))
	}
}

func (s *Service) replySystem(connID, text string) {
	s.sender.SendTo(connID, models.EventSystemMessage, models.SystemMessage{Text: text})
}
