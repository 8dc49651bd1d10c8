package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/jobtrack/internal/config"
	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/mcp"
	"github.com/rpggio/jobtrack/internal/metrics"
	"github.com/rpggio/jobtrack/internal/sqlite"
	"github.com/rpggio/jobtrack/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
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

	ctx := context.Background()
	snap, err := sqlite.NewSnapshotLoader(db).Load(ctx)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	records, err := store.New(snap, store.WithPruneSalesOnDelete(cfg.Ledger.PruneSalesOnDelete))
	if err != nil {
		logger.Error("failed to build record store", "error", err)
		os.Exit(1)
	}
	logger.Info("record store loaded", "projects", len(snap.Projects), "sales", len(snap.Sales))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	userSvc := user.NewService(sqlite.NewUserRepository(db), sqlite.NewAPIKeyRepository(db), logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)

	identity, err := defaultIdentity(ctx, userSvc, cfg.Identity.DefaultUser)
	if err != nil {
		logger.Error("failed to resolve default user", "user", cfg.Identity.DefaultUser, "error", err)
		os.Exit(1)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Store:           records,
		Users:           userSvc,
		Activity:        activitySvc,
		Metrics:         m,
		DefaultIdentity: identity,
		AuthEnabled:     cfg.Auth.Enabled,
		TransportMode:   cfg.Transport.Mode,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("failed to build MCP server", "error", err)
		os.Exit(1)
	}

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer, identity)
	} else {
		var metricsHandler http.Handler
		if cfg.Metrics.Enabled {
			metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		}
		runHTTPMode(logger, mcpServer, cfg, metricsHandler)
	}
}

// defaultIdentity resolves the user unauthenticated requests act as: the
// configured user, else the first admin on file, else an anonymous admin.
func defaultIdentity(ctx context.Context, users *user.Service, id string) (mcp.Identity, error) {
	if id != "" {
		p, err := users.Get(ctx, id)
		if err != nil {
			return mcp.Identity{}, err
		}
		return mcp.IdentityFromProfile(p), nil
	}
	profiles, err := users.List(ctx)
	if err != nil {
		return mcp.Identity{}, err
	}
	for i := range profiles {
		if slices.Contains(profiles[i].Roles, permission.RoleAdmin) {
			return mcp.IdentityFromProfile(&profiles[i]), nil
		}
	}
	return mcp.Identity{Name: "local", Roles: []permission.Role{permission.RoleAdmin}}, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, identity mcp.Identity) {
	logger.Info("starting stdio transport", "auth", "disabled", "user", identity.Name)

	// Create stdio transport
	transport := &sdkmcp.StdioTransport{}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, metricsHandler http.Handler) {
	// Create HTTP handler using SDK
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	// Create router with MCP, health and metrics endpoints
	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if metricsHandler != nil {
		router.Handle(cfg.Metrics.Path, metricsHandler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
