package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	base := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	entry1 := &activity.Entry{
		ProjectID: 1,
		UserID:    "u1",
		Type:      activity.TypeProjectCreated,
		Summary:   "created project 1",
		CreatedAt: base,
	}
	entry2 := &activity.Entry{
		ProjectID: 1,
		Type:      activity.TypeFieldEdited,
		Summary:   "edited paid on project 1",
		Details:   `{"field":"paid"}`,
		CreatedAt: base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeFieldEdited, entries[0].Type)
	require.Equal(t, `{"field":"paid"}`, entries[0].Details)
	require.Equal(t, "u1", entries[1].UserID)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for i, typ := range []activity.Type{activity.TypeProjectCreated, activity.TypeFieldEdited, activity.TypeFieldEdited} {
		require.NoError(t, repo.Log(ctx, &activity.Entry{ProjectID: i % 2, Type: typ, Summary: "x"}))
	}

	project := 0
	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: &project})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	typ := activity.TypeFieldEdited
	entries, err = repo.List(ctx, activity.ListOptions{Type: &typ, Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeFieldEdited, entries[0].Type)
}
