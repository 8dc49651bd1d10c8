package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/jobtrack/internal/dashboard"
	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/metrics"
	"github.com/rpggio/jobtrack/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// UserService resolves callers and project owners.
type UserService interface {
	Authenticate(ctx context.Context, token string) (*user.Profile, error)
	Owner(ctx context.Context, userID string) (project.Owner, error)
}

// ActivityService records and lists project mutations.
type ActivityService interface {
	Log(ctx context.Context, entry *activity.Entry) error
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Config contains server configuration.
type Config struct {
	Store           *store.Store
	Users           UserService
	Activity        ActivityService
	Metrics         *metrics.Metrics
	DefaultIdentity Identity
	AuthEnabled     bool
	TransportMode   string // "stdio" or "http"
	Logger          *slog.Logger
	Clock           func() time.Time
	SessionTTL      time.Duration
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) (*sdkmcp.Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("mcp server: %w", dashboard.ErrNotConfigured)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "jobtrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Later middleware runs first: identity is resolved before traffic is logged.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))
	// Auth applies to HTTP only.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled && cfg.Users != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Users))
	} else {
		server.AddReceivingMiddleware(staticIdentityMiddleware(cfg.DefaultIdentity))
	}

	handlers := &toolHandlers{
		engines:  newEngineRegistry(cfg.SessionTTL, engineBuilder(cfg, logger)),
		activity: cfg.Activity,
	}
	registerTools(server, handlers, cfg.Metrics)

	return server, nil
}

// engineBuilder returns the factory for per-session engines. Optional
// collaborators are only attached when configured.
func engineBuilder(cfg Config, logger *slog.Logger) func(string, Identity) (*dashboard.Engine, error) {
	return func(sessionID string, id Identity) (*dashboard.Engine, error) {
		opts := []dashboard.Option{
			dashboard.WithClock(cfg.Clock),
			dashboard.WithLogger(logger.With("session_id", sessionID, "user_id", id.UserID)),
			dashboard.WithActor(id.UserID),
		}
		if cfg.Users != nil {
			opts = append(opts, dashboard.WithOwners(cfg.Users))
		}
		if cfg.Metrics != nil {
			opts = append(opts, dashboard.WithRecorder(cfg.Metrics))
		}
		if cfg.Activity != nil {
			opts = append(opts, dashboard.WithAuditor(cfg.Activity))
		}
		return dashboard.New(cfg.Store, opts...)
	}
}
