package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/domain/grinder"
)

const (
	testUser     = "operator"
	testPassword = "secret"
	testToken    = "token-123"
)

// grinderServer is an in-memory grinder backend.
type grinderServer struct {
	// mu protects every field below.
	mu     sync.Mutex
	state  grinder.State
	alarms []*grinder.Alarm
	// resetAccepted is the answer of the reset endpoint.
	resetAccepted bool
	// hits counts requests per "METHOD path".
	hits map[string]int
}

// startGrinderServer serves the backend API and returns its URL.
func startGrinderServer(t *testing.T, alarms ...*grinder.Alarm) (*grinderServer, string) {
	t.Helper()

	if alarms == nil {
		alarms = []*grinder.Alarm{}
	}

	g := &grinderServer{
		state:         grinder.State{Forward: true, AutoMode: true, GatewayConnected: true},
		alarms:        alarms,
		resetAccepted: true,
		hits:          make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", g.login)
	mux.HandleFunc("GET /api/grinder-data", g.authorized(g.getState))
	mux.HandleFunc("GET /api/alarms", g.authorized(g.listAlarms))
	mux.HandleFunc("GET /api/alarms/count", g.authorized(g.countAlarms))
	mux.HandleFunc("POST /api/alarms/acknowledge-all", g.authorized(g.acknowledgeAll))
	mux.HandleFunc("PATCH /api/alarms/{id}", g.authorized(g.acknowledge))
	mux.HandleFunc("DELETE /api/alarms/{id}", g.authorized(g.deleteAlarm))
	mux.HandleFunc("POST /api/reset", g.authorized(g.reset))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.hits[r.Method+" "+r.URL.Path]++
		g.mu.Unlock()

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return g, srv.URL
}

// hitCount returns how many requests "METHOD path" received.
func (g *grinderServer) hitCount(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.hits[key]
}

// ids lists the alarm ids still stored.
func (g *grinderServer) ids() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := make([]string, 0, len(g.alarms))
	for _, a := range g.alarms {
		result = append(result, a.ID)
	}

	return result
}

func (g *grinderServer) setState(state grinder.State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = state
}

func (g *grinderServer) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			respond(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}

		next(w, r)
	}
}

func (g *grinderServer) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}

	if req.Username != testUser || req.Password != testPassword {
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid username or password"})
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   testToken,
		"user":    map[string]any{"id": 1, "username": testUser, "role": "operator"},
	})
}

func (g *grinderServer) getState(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	respond(w, http.StatusOK, g.state)
}

func (g *grinderServer) listAlarms(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	respond(w, http.StatusOK, g.alarms)
}

func (g *grinderServer) countAlarms(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	respond(w, http.StatusOK, map[string]int{"count": grinder.CountUnacknowledged(g.alarms)})
}

func (g *grinderServer) acknowledge(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, a := range g.alarms {
		if a.ID == r.PathValue("id") {
			a.Acknowledged = true
			respond(w, http.StatusOK, a)

			return
		}
	}

	respond(w, http.StatusNotFound, map[string]string{"message": "alarm not found"})
}

func (g *grinderServer) acknowledgeAll(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, a := range g.alarms {
		a.Acknowledged = true
	}

	respond(w, http.StatusOK, map[string]any{})
}

func (g *grinderServer) deleteAlarm(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.alarms[:0]
	for _, a := range g.alarms {
		if a.ID != r.PathValue("id") {
			kept = append(kept, a)
		}
	}

	g.alarms = kept

	respond(w, http.StatusOK, map[string]any{})
}

func (g *grinderServer) reset(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	respond(w, http.StatusOK, map[string]bool{"success": g.resetAccepted})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// unacknowledged builds open alarms with the given ids.
func unacknowledged(ids ...string) []*grinder.Alarm {
	result := make([]*grinder.Alarm, 0, len(ids))
	for _, id := range ids {
		result = append(result, &grinder.Alarm{
			ID:        id,
			Type:      "JAM",
			Message:   "Alarm " + id,
			Severity:  "critical",
			Timestamp: time.Now().Add(-2 * time.Minute),
		})
	}

	return result
}

// writeConsoleSettings stores settings for baseURL with fast cadences in a temp dir.
func writeConsoleSettings(t *testing.T, baseURL string) (configPath string) {
	t.Helper()

	dir := t.TempDir()
	configPath = filepath.Join(dir, "settings.yaml")

	require.NoError(t, config.Save(configPath, &config.Config{
		BaseURL:              baseURL,
		SessionFile:          filepath.Join(dir, "session.json"),
		Timeout:              2 * time.Second,
		StateInterval:        50 * time.Millisecond,
		CountInterval:        75 * time.Millisecond,
		ResetMessageDuration: 100 * time.Millisecond,
	}))

	return configPath
}
