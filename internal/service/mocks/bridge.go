// Package mocks contains testify mocks for the service-layer interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"world-server/internal/models"
)

// Bridge is a mock of the persistence bridge consumed by the engine.
type Bridge struct {
	mock.Mock
}

func (m *Bridge) FindPlayer(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.PlayerRecord)
	return rec, args.Error(1)
}

func (m *Bridge) UpsertPlayerState(id uuid.UUID, update models.PlayerStateUpdate) {
	m.Called(id, update)
}

func (m *Bridge) InsertRoomMessage(id uuid.UUID, text, roomKey string) {
	m.Called(id, text, roomKey)
}

func (m *Bridge) SetOnlineStatus(id uuid.UUID, online bool, zone string) {
	m.Called(id, online, zone)
}

func (m *Bridge) GrantItem(playerID uuid.UUID, itemID string) {
	m.Called(playerID, itemID)
}

func (m *Bridge) UpdatePresenceZone(id uuid.UUID, zone string) {
	m.Called(id, zone)
}
