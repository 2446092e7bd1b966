package connection

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

// fakeTimer fires immediately and records the requested delays.
type fakeTimer struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (f *fakeTimer) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.delays = append(f.delays, d)
	f.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (f *fakeTimer) Delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.delays...)
}

type testEnv struct {
	client *Client
	store  *storage.MemoryStore
	timer  *fakeTimer
}

func newTestClient(t *testing.T, baseURL string, cfg Config) *testEnv {
	t.Helper()

	cfg.BaseURL = baseURL
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}

	env := &testEnv{
		store: storage.NewMemoryStore(""),
		timer: &fakeTimer{},
	}

	c, err := New(cfg,
		WithStore(env.store),
		WithTimer(env.timer),
		WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	env.client = c
	return env
}

// countingServer counts requests and delegates to h.
func countingServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &n
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// hang blocks until the client gives up on the request.
func hang(r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(5 * time.Second):
	}
}
