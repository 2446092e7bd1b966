package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
	"github.com/yndnr/hwdesk-go/internal/telemetry/metric"
)

// UserKey is the store key of the serialized current user.
const UserKey = "homework_user"

// DefaultDeviceName labels sessions created by this client.
const DefaultDeviceName = "hwdesk-cli"

// API paths.
const (
	pathLogin      = "/auth/login"
	pathForceLogin = "/auth/login/force"
	pathLogout     = "/auth/logout"
)

var (
	ErrBusy                 = errors.New("auth: another login operation is in progress")
	ErrAlreadyAuthenticated = errors.New("auth: already logged in")
	ErrNotAuthenticated     = errors.New("auth: not logged in")
	ErrNoConflict           = errors.New("auth: no session conflict is pending")
	ErrInvalidLoginResponse = errors.New("auth: invalid login response")
)

// Transport is the subset of connection.Client the manager needs.
type Transport interface {
	Request(ctx context.Context, method, path string, body any, pathParams map[string]string) (*connection.Response, error)
	SetToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	Token() string
	OnAuthRequired(fn func())
}

// Credentials are what the user typed. They are never persisted and
// never logged.
type Credentials struct {
	Username   string
	Password   string
	DeviceName string
}

// LogValue keeps the password out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("device_name", c.DeviceName),
	)
}

func (c Credentials) body() map[string]string {
	return map[string]string{
		"username":    c.Username,
		"password":    c.Password,
		"device_name": c.DeviceName,
	}
}

// SessionInfo is the optional session block of a login response.
type SessionInfo struct {
	SessionID          connection.SessionKey `json:"session_id"`
	DeviceName         string                `json:"device_name,omitempty"`
	ExpiresAt          domain.Timestamp      `json:"expires_at"`
	TerminatedSessions int                   `json:"terminated_sessions,omitempty"`
	Message            string                `json:"message,omitempty"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
	SessionInfo *SessionInfo `json:"session_info"`
}

// pendingConflict is held only while in StateConflictPending.
type pendingConflict struct {
	creds Credentials
	info  *connection.ConflictInfo
}

// Manager owns the login state, the current user and any pending
// session conflict. It is safe for concurrent use; at most one of
// Login, ResolveConflict and Logout runs at a time.
type Manager struct {
	transport  Transport
	store      connection.Store
	deviceName string
	logger     logger.Logger
	metrics    *metric.ClientMetrics
	now        func() time.Time

	mu        sync.Mutex
	state     State
	busy      bool
	user      *domain.User
	session   *SessionInfo
	pending   *pendingConflict
	listeners []func(from, to State)
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists the current user in s.
func WithStore(s connection.Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithDeviceName sets the device label sent on login.
func WithDeviceName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.deviceName = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics records state transitions in metrics.
func WithMetrics(metrics *metric.ClientMetrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager in StateUnauthenticated and subscribes to
// the transport's 401 notifications.
func NewManager(t Transport, opts ...Option) *Manager {
	m := &Manager{
		transport:  t,
		deviceName: DefaultDeviceName,
		logger:     logger.Default(),
		now:        time.Now,
		state:      StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}

	t.OnAuthRequired(m.handleAuthRequired)
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Session returns the session block of the last successful login, if any.
func (m *Manager) Session() *SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Conflict returns a copy of the pending conflict, or nil outside
// StateConflictPending.
func (m *Manager) Conflict() *connection.ConflictInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	return m.pending.info.Clone()
}

// TokenClaims returns the unverified claims of the current token, if it is a JWT.
func (m *Manager) TokenClaims() (*TokenClaims, error) {
	token := m.transport.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return ParseTokenClaims(token)
}

// OnStateChange registers fn to run after every transition. fn must
// not call back into the manager's mutating methods.
func (m *Manager) OnStateChange(fn func(from, to State)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Restore reloads a persisted session. Token and user must both be
// present and valid; otherwise both are cleared and the manager stays
// unauthenticated. Tokens whose exp claim has passed are dropped.
func (m *Manager) Restore(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	if m.state != StateUnauthenticated || m.busy {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.busy = true
	m.mu.Unlock()
	defer m.release()

	token, err := m.transport.LoadToken(ctx)
	if err != nil {
		return nil, err
	}
	user, userErr := m.loadUser(ctx)

	switch {
	case token == "" && user == nil && userErr == nil:
		return nil, nil
	case token == "" || user == nil || userErr != nil:
		m.logger.Warn("discarding incomplete saved session",
			"has_token", token != "", "code", domain.CodeOf(userErr), "error", userErr)
		return nil, m.clearLocal(ctx)
	}

	if claims, err := ParseTokenClaims(token); err == nil && claims.Expired(m.now()) {
		m.logger.Info("saved session expired", "username", user.Username, "expired_at", claims.ExpiresAt)
		return nil, m.clearLocal(ctx)
	}

	m.mu.Lock()
	m.user = user
	m.transition(StateAuthenticated)
	m.mu.Unlock()

	u := *user
	return &u, nil
}

// Login authenticates with username and password.
//
// On a session-cap rejection the manager enters StateConflictPending
// and returns the *connection.APIError of kind KindSessionConflict;
// inspect it with Conflict. Login from StateConflictPending abandons
// the pending conflict.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.User, error) {
	creds := Credentials{
		Username:   strings.TrimSpace(username),
		Password:   password,
		DeviceName: m.deviceName,
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, domain.ErrMissingArgument.WithDetails("username and password are required")
	}

	m.mu.Lock()
	switch {
	case m.busy || m.state == StateAuthenticating:
		m.mu.Unlock()
		return nil, ErrBusy
	case m.state == StateAuthenticated:
		m.mu.Unlock()
		return nil, ErrAlreadyAuthenticated
	}
	m.pending = nil
	m.busy = true
	m.transition(StateAuthenticating)
	m.mu.Unlock()
	defer m.release()

	m.logger.Debug("logging in", "credentials", creds)

	resp, err := m.transport.Request(ctx, http.MethodPost, pathLogin, creds.body(), nil)
	if err != nil {
		apiErr, ok := connection.AsAPIError(err)
		if ok && apiErr.Kind == connection.KindSessionConflict {
			m.metrics.ObserveConflict()
			m.mu.Lock()
			m.pending = &pendingConflict{creds: creds, info: apiErr.Conflict}
			m.transition(StateConflictPending)
			m.mu.Unlock()
			return nil, err
		}

		m.mu.Lock()
		m.transition(StateUnauthenticated)
		m.mu.Unlock()
		return nil, err
	}

	user, err := m.completeLogin(ctx, resp)
	if err != nil {
		m.mu.Lock()
		m.transition(StateUnauthenticated)
		m.mu.Unlock()
		return nil, err
	}
	return user, nil
}

// ResolveConflict retries the pending login, asking the server to end
// the session identified by key. On failure the conflict stays pending
// so another session can be chosen; a fresh 409 replaces the conflict
// details.
func (m *Manager) ResolveConflict(ctx context.Context, key connection.SessionKey) (*domain.User, error) {
	if strings.TrimSpace(key.String()) == "" {
		return nil, domain.ErrMissingArgument.WithDetails("session id is required")
	}

	m.mu.Lock()
	if m.state != StateConflictPending || m.pending == nil {
		m.mu.Unlock()
		return nil, ErrNoConflict
	}
	if m.busy {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.busy = true
	creds := m.pending.creds
	m.mu.Unlock()
	defer m.release()

	m.logger.Debug("forcing login", "credentials", creds, "evict_session", key)

	path := pathForceLogin + "?" + url.Values{"session_id": {key.String()}}.Encode()
	resp, err := m.transport.Request(ctx, http.MethodPost, path, creds.body(), nil)
	if err != nil {
		if apiErr, ok := connection.AsAPIError(err); ok && apiErr.Kind == connection.KindSessionConflict {
			m.mu.Lock()
			if m.pending != nil {
				m.pending.info = apiErr.Conflict
			}
			m.mu.Unlock()
		}
		return nil, err
	}

	user, err := m.completeLogin(ctx, resp)
	if err != nil {
		return nil, err
	}

	if s := m.Session(); s != nil && s.TerminatedSessions > 0 {
		m.logger.Info("evicted previous sessions", "count", s.TerminatedSessions)
	}
	return user, nil
}

// CancelConflict abandons a pending conflict without contacting the
// server and forgets the credentials.
func (m *Manager) CancelConflict() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConflictPending {
		return ErrNoConflict
	}
	if m.busy {
		return ErrBusy
	}
	m.pending = nil
	m.transition(StateUnauthenticated)
	return nil
}

// Logout notifies the server on a best-effort basis and always clears
// the local token and user. Only a failure to clear local state is
// returned. Logging out from StateConflictPending cancels the conflict.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.busy || m.state == StateAuthenticating {
		m.mu.Unlock()
		return ErrBusy
	}
	m.busy = true
	m.pending = nil
	m.mu.Unlock()
	defer m.release()

	if m.transport.Token() != "" {
		if _, err := m.transport.Request(ctx, http.MethodPost, pathLogout, nil, nil); err != nil {
			m.logger.Debug("server logout failed, clearing local session anyway", "error", err)
		}
	}

	return m.clearLocal(ctx)
}

// completeLogin validates a login response, stores the token and user
// and enters StateAuthenticated. It clears any pending conflict.
func (m *Manager) completeLogin(ctx context.Context, resp *connection.Response) (*domain.User, error) {
	var lr loginResponse
	if err := resp.Decode(&lr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoginResponse, err)
	}
	if lr.AccessToken == "" || lr.User == nil {
		return nil, ErrInvalidLoginResponse
	}

	if err := m.transport.SetToken(ctx, lr.AccessToken); err != nil {
		m.logger.Warn("token not persisted; session will not survive restart", "error", err)
	}
	if err := m.saveUser(ctx, lr.User); err != nil {
		m.logger.Warn("user not persisted", "error", err)
	}

	m.mu.Lock()
	m.user = lr.User
	m.session = lr.SessionInfo
	m.pending = nil
	m.transition(StateAuthenticated)
	m.mu.Unlock()

	m.logger.Info("logged in", "username", lr.User.Username, "role", lr.User.Role)

	u := *lr.User
	return &u, nil
}

// handleAuthRequired runs after the transport saw a 401 and cleared
// the token. Only an authenticated session is dropped; a 401 during
// login is reported by Login itself.
func (m *Manager) handleAuthRequired() {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}
	m.user = nil
	m.session = nil
	m.transition(StateUnauthenticated)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(context.Background(), UserKey); err != nil {
			m.logger.Warn("clear saved user failed", "error", err)
		}
	}
	m.logger.Warn("session no longer valid, logged out")
}

func (m *Manager) clearLocal(ctx context.Context) error {
	tokenErr := m.transport.SetToken(ctx, "")

	var userErr error
	if m.store != nil {
		userErr = m.store.Delete(ctx, UserKey)
	}

	m.mu.Lock()
	m.user = nil
	m.session = nil
	m.pending = nil
	m.transition(StateUnauthenticated)
	m.mu.Unlock()

	return errors.Join(tokenErr, userErr)
}

func (m *Manager) loadUser(ctx context.Context) (*domain.User, error) {
	if m.store == nil {
		return nil, nil
	}
	data, err := m.store.Get(ctx, UserKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil || u.Username == "" {
		return nil, domain.ErrUserRecordCorrupt.WithCause(err)
	}
	return &u, nil
}

func (m *Manager) saveUser(ctx context.Context, u *domain.User) error {
	if m.store == nil {
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, UserKey, data)
}

func (m *Manager) release() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

// transition must be called with mu held. Listeners run under the lock.
func (m *Manager) transition(to State) {
	from := m.state
	if from == to {
		return
	}
	m.state = to
	m.metrics.ObserveTransition(from.String(), to.String())
	m.logger.Debug("auth state changed", "from", from, "to", to)
	for _, fn := range m.listeners {
		fn(from, to)
	}
}
