package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"world-server/internal/models"
)

// Mock PlayerRepository
type PlayerRepository struct {
	mock.Mock
}

func (m *PlayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PlayerRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.PlayerRecord)
	return rec, args.Error(1)
}
func (m *PlayerRepository) UpdateState(ctx context.Context, id uuid.UUID, update models.PlayerStateUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
func (m *PlayerRepository) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	args := m.Called(ctx, id, online)
	return args.Error(0)
}
func (m *PlayerRepository) ListAvatars(ctx context.Context, id uuid.UUID) ([]models.AvatarRecord, error) {
	args := m.Called(ctx, id)
	avatars, _ := args.Get(0).([]models.AvatarRecord)
	return avatars, args.Error(1)
}
func (m *PlayerRepository) GetClub(ctx context.Context, id uuid.UUID) (*models.ClubRecord, error) {
	args := m.Called(ctx, id)
	club, _ := args.Get(0).(*models.ClubRecord)
	return club, args.Error(1)
}

// Mock ItemRepository
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) ListItems(ctx context.Context) ([]models.ItemRecord, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.ItemRecord)
	return items, args.Error(1)
}
func (m *ItemRepository) GetItem(ctx context.Context, id string) (*models.ItemRecord, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.ItemRecord)
	return item, args.Error(1)
}
func (m *ItemRepository) ListPlayerItems(ctx context.Context, playerID uuid.UUID) ([]models.PlayerItemRecord, error) {
	args := m.Called(ctx, playerID)
	items, _ := args.Get(0).([]models.PlayerItemRecord)
	return items, args.Error(1)
}
func (m *ItemRepository) AddPlayerItem(ctx context.Context, playerID uuid.UUID, itemID string) error {
	args := m.Called(ctx, playerID, itemID)
	return args.Error(0)
}
func (m *ItemRepository) SetEquipped(ctx context.Context, playerItemID int64, equipped bool) error {
	args := m.Called(ctx, playerItemID, equipped)
	return args.Error(0)
}

// Mock MissionRepository
type MissionRepository struct {
	mock.Mock
}

func (m *MissionRepository) ListMissions(ctx context.Context) ([]models.MissionRecord, error) {
	args := m.Called(ctx)
	missions, _ := args.Get(0).([]models.MissionRecord)
	return missions, args.Error(1)
}
func (m *MissionRepository) ListPlayerMissions(ctx context.Context, playerID uuid.UUID) ([]models.PlayerMissionRecord, error) {
	args := m.Called(ctx, playerID)
	missions, _ := args.Get(0).([]models.PlayerMissionRecord)
	return missions, args.Error(1)
}

// Mock MessageRepository
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) InsertRoomMessage(ctx context.Context, playerID uuid.UUID, text, roomKey string) error {
	args := m.Called(ctx, playerID, text, roomKey)
	return args.Error(0)
}

// Mock PresenceRepository
type PresenceRepository struct {
	mock.Mock
}

func (m *PresenceRepository) SetOnline(ctx context.Context, id uuid.UUID, zone string) error {
	args := m.Called(ctx, id, zone)
	return args.Error(0)
}
func (m *PresenceRepository) SetOffline(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *PresenceRepository) UpdateZone(ctx context.Context, id uuid.UUID, zone string) error {
	args := m.Called(ctx, id, zone)
	return args.Error(0)
}
