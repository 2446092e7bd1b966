package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yndnr/hwdesk-go/internal/infra/buildinfo"
	"github.com/yndnr/hwdesk-go/internal/infra/tlsroots"
	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
	"github.com/yndnr/hwdesk-go/internal/telemetry/metric"
)

// Store keys.
const (
	TokenKey    = "auth_token"
	clientIDKey = "client_id"
)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2

	// MaxRetriesLimit bounds the backoff schedule at 2^10 seconds.
	MaxRetriesLimit = 10
)

// Store is the durable key-value store the client persists its token in.
// storage.Store satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Config holds transport settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int

	// RateLimit caps outgoing attempts per second. Zero disables it.
	RateLimit float64

	// CAFile adds a private CA to the trusted roots.
	CAFile string

	// UserAgent defaults to buildinfo.UserAgent().
	UserAgent string
}

// DefaultConfig returns the default transport settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// Client performs authenticated JSON requests against the API.
//
// Client is safe for concurrent use. Overlapping requests run
// independent retry loops; the token is last-write-wins.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	timeout    time.Duration
	maxRetries int
	token      string
	authHooks  []func()

	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	store      Store
	timer      Timer
	metrics    *metric.ClientMetrics
	logger     logger.Logger

	clientIDOnce sync.Once
	clientID     string
}

// Option configures a Client.
type Option func(*Client)

// WithStore persists the token in s.
func WithStore(s Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records request metrics in m.
func WithMetrics(m *metric.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimer replaces the clock used to wait between retries.
func WithTimer(t Timer) Option {
	return func(c *Client) { c.timer = t }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		userAgent: cfg.UserAgent,
		timer:     realTimer{},
		logger:    logger.Default(),
	}
	if c.userAgent == "" {
		c.userAgent = buildinfo.UserAgent()
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := c.Configure(cfg.BaseURL, cfg.Timeout, cfg.MaxRetries); err != nil {
		return nil, err
	}

	if c.httpClient == nil {
		tlsCfg, err := tlsroots.ClientTLSConfig(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("connection: %w", err)
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
		c.httpClient = &http.Client{Transport: transport}
	}

	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return c, nil
}

// Configure sets the base URL, per-attempt timeout and retry bound.
// maxRetries counts additional attempts: 2 allows 3 in total. It is
// clamped to 0..MaxRetriesLimit.
func (c *Client) Configure(baseURL string, timeout time.Duration, maxRetries int) error {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return fmt.Errorf("connection: timeout must be positive, got %s", timeout)
	}
	maxRetries = min(max(maxRetries, 0), MaxRetriesLimit)

	c.mu.Lock()
	c.baseURL = normalized
	c.timeout = timeout
	c.maxRetries = maxRetries
	c.mu.Unlock()
	return nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Token returns the current bearer token, or "" when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a bearer token is set.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

// SetToken stores token in memory and in the durable store. An empty
// token clears both. The in-memory value is updated even if the store
// write fails.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}

	var err error
	if token == "" {
		err = c.store.Delete(ctx, TokenKey)
	} else {
		err = c.store.Set(ctx, TokenKey, []byte(token))
	}
	if err != nil {
		return fmt.Errorf("connection: persist token: %w", err)
	}
	return nil
}

// LoadToken reads the persisted token into memory and returns it.
// A missing token is not an error.
func (c *Client) LoadToken(ctx context.Context) (string, error) {
	if c.store == nil {
		return c.Token(), nil
	}

	data, err := c.store.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("connection: load token: %w", err)
	}

	c.mu.Lock()
	c.token = string(data)
	c.mu.Unlock()
	return string(data), nil
}

// OnAuthRequired registers fn to run after a 401 has cleared the token.
// Hooks run on the goroutine that issued the request.
func (c *Client) OnAuthRequired(fn func()) {
	c.mu.Lock()
	c.authHooks = append(c.authHooks, fn)
	c.mu.Unlock()
}

// ClientID returns the installation id sent as X-Client-ID. It is
// generated once and persisted when a store is configured.
func (c *Client) ClientID(ctx context.Context) string {
	c.clientIDOnce.Do(func() {
		if c.store != nil {
			if data, err := c.store.Get(ctx, clientIDKey); err == nil && len(data) > 0 {
				c.clientID = string(data)
				return
			}
		}

		c.clientID = uuid.NewString()
		if c.store != nil {
			if err := c.store.Set(ctx, clientIDKey, []byte(c.clientID)); err != nil {
				c.logger.Debug("persist client id failed", "error", err)
			}
		}
	})
	return c.clientID
}

func (c *Client) handleAuthRequired(ctx context.Context) {
	if err := c.SetToken(context.WithoutCancel(ctx), ""); err != nil {
		c.logger.Warn("clear token after 401 failed", "error", err)
	}

	c.mu.RLock()
	hooks := append([]func(){}, c.authHooks...)
	c.mu.RUnlock()

	for _, hook := range hooks {
		hook()
	}
}
