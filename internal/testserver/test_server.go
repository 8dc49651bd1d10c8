// Package testserver runs a seeded jobtrack MCP server for tests, either over
// in-memory transports or over streamable HTTP with bearer-token auth.
package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/mcp"
	"github.com/rpggio/jobtrack/internal/metrics"
	"github.com/rpggio/jobtrack/internal/sqlite"
	"github.com/rpggio/jobtrack/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// Now is the fixed clock every test server runs on.
var Now = time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC)

type TestServer struct {
	DB       *sqlite.DB
	Store    *store.Store
	Seed     *sqlite.SeedResult
	Users    *user.Service
	Activity *activity.Service
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// New seeds an in-memory database and builds a store from it.
func New(t *testing.T, opts ...store.Option) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.RunMigrations())

	seed, err := sqlite.Seed(ctx, db, Now)
	require.NoError(t, err)

	snap, err := sqlite.NewSnapshotLoader(db).Load(ctx)
	require.NoError(t, err)
	s, err := store.New(snap, opts...)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return &TestServer{
		DB:       db,
		Store:    s,
		Seed:     seed,
		Users:    user.NewService(sqlite.NewUserRepository(db), sqlite.NewAPIKeyRepository(db), nil),
		Activity: activity.NewService(sqlite.NewActivityRepository(db), nil),
		Metrics:  metrics.New(reg),
		Registry: reg,
	}
}

// User returns the seeded profile with the given name.
func (ts *TestServer) User(t *testing.T, name string) user.Profile {
	t.Helper()
	for _, u := range ts.Seed.Users {
		if u.Name == name {
			return u
		}
	}
	require.FailNow(t, "no seeded user", name)
	return user.Profile{}
}

// Token returns the seeded API token of the named user.
func (ts *TestServer) Token(t *testing.T, name string) string {
	return ts.Seed.Tokens[ts.User(t, name).ID]
}

func (ts *TestServer) config(mode string, auth bool, id mcp.Identity) mcp.Config {
	return mcp.Config{
		Store:           ts.Store,
		Users:           ts.Users,
		Activity:        ts.Activity,
		Metrics:         ts.Metrics,
		DefaultIdentity: id,
		AuthEnabled:     auth,
		TransportMode:   mode,
		Clock:           func() time.Time { return Now },
	}
}

// Connect opens an in-memory client session acting as the named user.
func (ts *TestServer) Connect(t *testing.T, name string) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	p := ts.User(t, name)

	server, err := mcp.NewServer(ts.config("stdio", false, mcp.IdentityFromProfile(&p)))
	require.NoError(t, err)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "jobtrack-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// ServeHTTP starts an auth-enabled streamable HTTP endpoint.
func (ts *TestServer) ServeHTTP(t *testing.T) *httptest.Server {
	t.Helper()
	server, err := mcp.NewServer(ts.config("http", true, mcp.Identity{}))
	require.NoError(t, err)

	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)
	return httpServer
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.base.RoundTrip(req)
}

// ConnectHTTP opens a client session against endpoint using token.
func ConnectHTTP(t *testing.T, endpoint, token string) *sdkmcp.ClientSession {
	t.Helper()
	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Transport: &bearerTransport{token: token, base: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "jobtrack-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// Call invokes a tool that must succeed and decodes its structured result.
func Call[Out any](t *testing.T, session *sdkmcp.ClientSession, name string, args any) Out {
	t.Helper()
	res := call(t, session, name, args)
	require.Falsef(t, res.IsError, "%s failed: %s", name, errorText(res))

	var out Out
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// CallError invokes a tool that must fail and returns its error text.
func CallError(t *testing.T, session *sdkmcp.ClientSession, name string, args any) string {
	t.Helper()
	res := call(t, session, name, args)
	require.Truef(t, res.IsError, "%s unexpectedly succeeded", name)
	return errorText(res)
}

func call(t *testing.T, session *sdkmcp.ClientSession, name string, args any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func errorText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
