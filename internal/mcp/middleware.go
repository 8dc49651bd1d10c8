package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/user"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the caller a request acts for.
type Identity struct {
	UserID string
	Name   string
	Roles  []permission.Role
}

// IdentityFromProfile converts a stored profile.
func IdentityFromProfile(p *user.Profile) Identity {
	return Identity{UserID: p.ID, Name: p.Name, Roles: p.Roles}
}

// getIdentity extracts the caller identity from context.
func getIdentity(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticator resolves a bearer token to a user profile.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Profile, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(auth Authenticator) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			header := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			profile, err := auth.Authenticate(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}

			return next(withIdentity(ctx, IdentityFromProfile(profile)), method, req)
		}
	}
}

// staticIdentityMiddleware injects a fixed identity when auth is disabled.
func staticIdentityMiddleware(id Identity) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(withIdentity(ctx, id), method, req)
		}
	}
}
