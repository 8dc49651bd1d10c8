package mcp

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/jobtrack/internal/dashboard"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultSessionTTL = 30 * time.Minute

type sessionKey struct {
	session *sdkmcp.ServerSession
	userID  string
}

type sessionEngine struct {
	id       string
	engine   *dashboard.Engine
	lastUsed time.Time
}

// engineRegistry holds one dashboard engine, and so one filter selection,
// per MCP session and user. Idle engines are evicted after ttl.
type engineRegistry struct {
	mu      sync.Mutex
	engines map[sessionKey]*sessionEngine
	build   func(sessionID string, id Identity) (*dashboard.Engine, error)
	ttl     time.Duration
	now     func() time.Time
}

func newEngineRegistry(ttl time.Duration, build func(string, Identity) (*dashboard.Engine, error)) *engineRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &engineRegistry{
		engines: make(map[sessionKey]*sessionEngine),
		build:   build,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *engineRegistry) get(session *sdkmcp.ServerSession, id Identity) (*dashboard.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)

	key := sessionKey{session: session, userID: id.UserID}
	if se, ok := r.engines[key]; ok {
		se.lastUsed = now
		return se.engine, nil
	}

	sessionID := ""
	if session != nil {
		sessionID = session.ID()
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	engine, err := r.build(sessionID, id)
	if err != nil {
		return nil, err
	}
	r.engines[key] = &sessionEngine{id: sessionID, engine: engine, lastUsed: now}
	return engine, nil
}

func (r *engineRegistry) evictLocked(now time.Time) {
	for key, se := range r.engines {
		if now.Sub(se.lastUsed) > r.ttl {
			delete(r.engines, key)
		}
	}
}

func (r *engineRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
