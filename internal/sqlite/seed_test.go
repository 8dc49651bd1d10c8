package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/dashboard"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/store"
	"github.com/stretchr/testify/require"
)

func TestSeedAndLoadSnapshot(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)

	res, err := Seed(ctx, db, now)
	require.NoError(t, err)
	require.Len(t, res.Users, len(seedUsers))
	require.Len(t, res.Tokens, len(seedUsers))
	require.Equal(t, len(seedProjects), res.Projects)

	_, err = Seed(ctx, db, now)
	require.ErrorIs(t, err, ErrAlreadySeeded)

	snap, err := NewSnapshotLoader(db).Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Projects, res.Projects)
	require.Len(t, snap.Sales, res.Sales)
	for _, p := range snap.Projects {
		require.NotEmpty(t, p.OwnerName)
		if p.Status == project.StatusFinished {
			require.True(t, p.Paid.Equal(p.ContractAmount))
		}
	}

	s, err := store.New(snap)
	require.NoError(t, err)

	admin := res.Users[0]
	svc := user.NewService(NewUserRepository(db), NewAPIKeyRepository(db), nil)
	authed, err := svc.Authenticate(ctx, res.Tokens[admin.ID])
	require.NoError(t, err)
	require.Contains(t, authed.Roles, permission.RoleAdmin)

	e, err := dashboard.New(s, dashboard.WithOwners(svc), dashboard.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	p, err := e.CreateProject(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, len(seedProjects)+1, p.ID)
	require.Equal(t, admin.Name, p.OwnerName)
}
