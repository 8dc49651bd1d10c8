// Command seed fills an empty jobtrack database with demo users, API tokens,
// projects and sales.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/jobtrack/internal/config"
	"github.com/rpggio/jobtrack/internal/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if dir := filepath.Dir(cfg.DB.Path); dir != "." && cfg.DB.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to prepare database path", "error", err)
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	res, err := sqlite.Seed(context.Background(), db, time.Now())
	if errors.Is(err, sqlite.ErrAlreadySeeded) {
		logger.Info("database already seeded; nothing to do", "db", cfg.DB.Path)
		return
	}
	if err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	logger.Info("seeded database", "db", cfg.DB.Path, "users", len(res.Users), "projects", res.Projects, "sales", res.Sales)
	for _, u := range res.Users {
		fmt.Printf("%s\t%s\t%v\ttoken=%s\n", u.ID, u.Name, u.Roles, res.Tokens[u.ID])
	}
}
