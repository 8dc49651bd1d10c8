package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.Entry{
		ProjectID: 3,
		Type:      activity.TypeProjectCreated,
		Summary:   "created project 3",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListOptions{Limit: 50}).Return([]activity.Entry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	got, err := svc.Recent(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.Log(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(context.Background(), &activity.Entry{}), activity.ErrInvalidInput)
}

func TestActivityService_WrapsRepositoryError(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	boom := errors.New("disk full")
	repo.On("Log", mock.Anything, mock.Anything).Return(boom)

	svc := activity.NewService(repo, nil)
	err := svc.Log(context.Background(), &activity.Entry{Type: activity.TypeFieldEdited})
	require.ErrorIs(t, err, boom)
}
