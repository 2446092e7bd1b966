package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"

	"github.com/yndnr/hwdesk-go/internal/storage"
)

// mockServer is a test HTTP server with handlers keyed by "METHOD /path".
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    []call
}

// call is one request seen by the mock server.
type call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))

		c := call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &c.Body)
		}

		m.mu.Lock()
		m.calls = append(m.calls, c)
		handler, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()

		if !ok {
			jsonResponse(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for method and path.
func (m *mockServer) handle(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" "+path] = handler
}

// respond registers a fixed JSON response.
func (m *mockServer) respond(method, path string, status int, data any) {
	m.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, status, data)
	})
}

// callsTo returns the requests made to method and path.
func (m *mockServer) callsTo(method, path string) []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []call
	for _, c := range m.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type instantTimer struct{}

func (instantTimer) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// testEnv runs the application against a mock server. The store and
// filesystem outlive single runs, like a real home directory.
type testEnv struct {
	t      *testing.T
	server *mockServer
	store  *storage.MemoryStore
	fs     afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	return &testEnv{
		t:      t,
		server: newMockServer(t),
		store:  storage.NewMemoryStore(""),
		fs:     afero.NewMemMapFs(),
	}
}

// result is the outcome of one run.
type result struct {
	stdout string
	stderr string
	code   int
}

// run executes args with stdin as the terminal input.
func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	opts := Options{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Store:  e.store,
		Timer:  instantTimer{},
		Now:    func() time.Time { return testNow },
		Fs:     e.fs,
	}
	full := append([]string{appName, "--server", e.server.URL, "--retries", "0"}, args...)
	code := Run(context.Background(), full, opts)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// mustRun fails the test unless the run succeeds.
func (e *testEnv) mustRun(stdin string, args ...string) result {
	e.t.Helper()
	res := e.run(stdin, args...)
	if res.code != 0 {
		e.t.Fatalf("%v exited %d\nstdout: %s\nstderr: %s", args, res.code, res.stdout, res.stderr)
	}
	return res
}

// testToken returns an HS256 JWT carrying sub and exp.
func testToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

func loginBody(t *testing.T, id int64, username, role string) map[string]any {
	return map[string]any{
		"access_token": testToken(t, username, testNow.Add(2*time.Hour)),
		"token_type":   "bearer",
		"user": map[string]any{
			"id":       id,
			"username": username,
			"fullname": strings.ToUpper(username[:1]) + username[1:] + " Test",
			"role":     role,
		},
	}
}

// loginAs logs in through the CLI with the given role.
func (e *testEnv) loginAs(role string) {
	e.t.Helper()
	e.server.respond(http.MethodPost, "/auth/login", http.StatusOK, loginBody(e.t, 7, role+"1", role))
	e.mustRun("", "login", "-u", role+"1", "-p", "secret")
}
