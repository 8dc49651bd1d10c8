package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("anything"))
}

func TestLogFileWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	for i := 0; i < 7; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	_, err = w.Write([]byte("tail\n"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasSuffix(data, []byte("tail\n")))
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))
	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, ensureDBDir(filepath.Join(dir, "jobtrack.db")))
	_, err := os.Stat(dir)
	require.NoError(t, err)
}

func TestDefaultIdentity(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())
	users := user.NewService(sqlite.NewUserRepository(db), sqlite.NewAPIKeyRepository(db), nil)

	id, err := defaultIdentity(ctx, users, "")
	require.NoError(t, err)
	require.Equal(t, "local", id.Name)
	require.Equal(t, []permission.Role{permission.RoleAdmin}, id.Roles)

	seed, err := sqlite.Seed(ctx, db, time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	id, err = defaultIdentity(ctx, users, "")
	require.NoError(t, err)
	require.Contains(t, id.Roles, permission.RoleAdmin)
	require.NotEmpty(t, id.UserID)

	pm := seed.Users[1]
	id, err = defaultIdentity(ctx, users, pm.ID)
	require.NoError(t, err)
	require.Equal(t, pm.Name, id.Name)

	_, err = defaultIdentity(ctx, users, "missing")
	require.ErrorIs(t, err, user.ErrUserNotFound)
}
