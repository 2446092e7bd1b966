package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

const (
	userJSON  = `{"id":7,"username":"alice","fullname":"Alice Doe","role":"student","group_id":3}`
	loginOK   = `{"access_token":"tok-A","token_type":"bearer","user":` + userJSON + `}`
	forceOK   = `{"access_token":"tok-B","token_type":"bearer","user":` + userJSON + `,"session_info":{"session_id":55,"terminated_sessions":1}}`
	conflict2 = `{"detail":{"message":"Maximum 2 devices","current_devices":2,"max_devices":2,"username":"alice",
		"active_sessions":[
			{"session_id":101,"device_name":"Lab PC","last_activity":"2024-05-01T08:00:00"},
			{"session_id":102,"device_name":"Phone","last_activity":"2024-05-01T09:00:00"}]}}`
)

type call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]string
}

// apiServer is a scripted fake of the homework API.
type apiServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	calls    []call
	handlers map[string]http.HandlerFunc
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	a := &apiServer{handlers: make(map[string]http.HandlerFunc)}
	a.srv = httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *apiServer) serve(w http.ResponseWriter, r *http.Request) {
	c := call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &c.Body)
	}

	a.mu.Lock()
	a.calls = append(a.calls, c)
	h := a.handlers[r.URL.Path]
	a.mu.Unlock()

	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (a *apiServer) handle(path string, h http.HandlerFunc) {
	a.mu.Lock()
	a.handlers[path] = h
	a.mu.Unlock()
}

func (a *apiServer) reply(path string, status int, body string) {
	a.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (a *apiServer) callsTo(path string) []call {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []call
	for _, c := range a.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

type instantTimer struct{}

func (instantTimer) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

type testEnv struct {
	api     *apiServer
	client  *connection.Client
	store   *storage.MemoryStore
	manager *Manager
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	env := &testEnv{
		api:   newAPIServer(t),
		store: storage.NewMemoryStore(""),
	}

	c, err := connection.New(connection.Config{
		BaseURL:    env.api.srv.URL,
		Timeout:    time.Second,
		MaxRetries: 2,
	},
		connection.WithStore(env.store),
		connection.WithTimer(instantTimer{}),
		connection.WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	env.client = c

	opts = append([]Option{WithStore(env.store), WithLogger(logger.Discard())}, opts...)
	env.manager = NewManager(c, opts...)
	return env
}
