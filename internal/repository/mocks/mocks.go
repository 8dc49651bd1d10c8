package mocks

import (
	"context"

	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProfileRepository is a mock for user.ProfileRepository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, id string) (*user.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*user.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) List(ctx context.Context) ([]user.Profile, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]user.Profile); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// KeyRepository is a mock for user.KeyRepository.
type KeyRepository struct {
	mock.Mock
}

func (m *KeyRepository) LookupUser(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}

func (m *KeyRepository) Touch(ctx context.Context, keyHash string) error {
	args := m.Called(ctx, keyHash)
	return args.Error(0)
}

// OwnerDirectory is a mock for dashboard.OwnerDirectory.
type OwnerDirectory struct {
	mock.Mock
}

func (m *OwnerDirectory) Owner(ctx context.Context, userID string) (project.Owner, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(project.Owner), args.Error(1)
}
