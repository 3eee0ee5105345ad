package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"secretshare-service/internal/models"
	"secretshare-service/internal/rabbitmq"
	"secretshare-service/internal/repositories"
)

// MockProfileRepository mocks ProfileRepository behavior for services and handlers.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	var p *models.Profile
	if val := args.Get(0); val != nil {
		p = val.(*models.Profile)
	}
	return p, args.Error(1)
}

func (m *MockProfileRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error) {
	args := m.Called(ctx, id, email)
	var p *models.Profile
	if val := args.Get(0); val != nil {
		p = val.(*models.Profile)
	}
	return p, args.Error(1)
}

func (m *MockProfileRepository) UpsertSecretMessage(ctx context.Context, id uuid.UUID, email, message string) (*models.Profile, error) {
	args := m.Called(ctx, id, email, message)
	var p *models.Profile
	if val := args.Get(0); val != nil {
		p = val.(*models.Profile)
	}
	return p, args.Error(1)
}

func (m *MockProfileRepository) ListOthers(ctx context.Context, id uuid.UUID) ([]models.Profile, error) {
	args := m.Called(ctx, id)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFriendRepository mocks FriendRepository behavior for services and handlers.
type MockFriendRepository struct {
	mock.Mock
}

func (m *MockFriendRepository) FindRelationship(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, userA, userB)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendRepository) Create(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, requesterID, receiverID)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) (*models.Friendship, error) {
	args := m.Called(ctx, id, status)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendRepository) AcceptPending(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	return m.entries(m.Called(ctx, userID))
}

func (m *MockFriendRepository) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	return m.entries(m.Called(ctx, userID))
}

func (m *MockFriendRepository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	return m.entries(m.Called(ctx, userID))
}

func (m *MockFriendRepository) entries(args mock.Arguments) ([]models.FriendshipEntry, error) {
	var entries []models.FriendshipEntry
	if val := args.Get(0); val != nil {
		entries = val.([]models.FriendshipEntry)
	}
	return entries, args.Error(1)
}

// MockPublisher mocks RabbitMQ publisher behavior for telemetry.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Compile-time assertions
var (
	_ repositories.ProfileRepository = (*MockProfileRepository)(nil)
	_ repositories.FriendRepository  = (*MockFriendRepository)(nil)
	_ rabbitmq.Publisher             = (*MockPublisher)(nil)
)
