package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/api"
	"github.com/yndnr/hwdesk-go/internal/cli/auth"
	"github.com/yndnr/hwdesk-go/internal/cli/config"
	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/infra/buildinfo"
	"github.com/yndnr/hwdesk-go/internal/infra/shutdown"
	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
	"github.com/yndnr/hwdesk-go/internal/telemetry/metric"
)

const closeTimeout = 5 * time.Second

// Runtime holds the wired client components for one process.
type Runtime struct {
	Config  *config.Loaded
	Log     logger.Logger
	Metrics *metric.ClientMetrics
	Store   storage.Store
	Conn    *connection.Client
	Auth    *auth.Manager
	API     *api.Client

	Now func() time.Time

	closer *shutdown.Handler
}

// Close flushes metrics and releases the store and log file.
func (rt *Runtime) Close() error {
	return rt.closer.Shutdown()
}

// runtimeFrom builds the runtime on first use. Commands that only touch
// local configuration never open the store.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	st := stateOf(c)
	if st.rt != nil {
		return st.rt, nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	rt, err := newRuntime(c.Context, cfg, st.opts)
	if err != nil {
		return nil, err
	}
	st.rt = rt
	return rt, nil
}

// authenticated returns the runtime of a logged-in user.
func authenticated(c *cli.Context) (*Runtime, error) {
	rt, err := runtimeFrom(c)
	if err != nil {
		return nil, err
	}
	if !rt.Auth.IsAuthenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	return rt, nil
}

func newRuntime(ctx context.Context, cfg *config.Loaded, opts Options) (rt *Runtime, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	closer := opts.Shutdown
	defer func() {
		if err != nil {
			_ = closer.Shutdown()
		}
	}()

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: opts.Stderr}
	if cfg.Log.File != "" {
		w, err := logger.NewFileWriter(logger.FileConfig{Path: cfg.Log.File})
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closer.OnShutdown(func(context.Context) error { return w.Close() })
		logCfg.Output = w
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	store := opts.Store
	if store == nil {
		store, err = storage.Open(storage.Config{
			Engine:        cfg.Store.Driver,
			Dir:           cfg.Store.Dir,
			KeyPrefix:     cfg.Store.KeyPrefix,
			RedisAddr:     cfg.Store.RedisAddr,
			RedisPassword: cfg.Store.RedisPassword,
			RedisDB:       cfg.Store.RedisDB,
		}, log.Slog())
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		closer.OnShutdown(func(context.Context) error { return store.Close() })
	}

	metrics := metric.NewClientMetrics()
	if path := cfg.Metrics.Textfile; path != "" {
		closer.OnShutdown(func(context.Context) error { return metrics.WriteTextfile(path) })
	}

	connOpts := []connection.Option{
		connection.WithStore(store),
		connection.WithLogger(log),
		connection.WithMetrics(metrics),
	}
	if opts.Timer != nil {
		connOpts = append(connOpts, connection.WithTimer(opts.Timer))
	}
	conn, err := connection.New(connection.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		RateLimit:  cfg.API.RateLimit,
		CAFile:     cfg.API.CAFile,
		UserAgent:  buildinfo.UserAgent(),
	}, connOpts...)
	if err != nil {
		return nil, err
	}

	mgr := auth.NewManager(conn,
		auth.WithStore(store),
		auth.WithDeviceName(cfg.Auth.DeviceName),
		auth.WithLogger(log),
		auth.WithMetrics(metrics),
		auth.WithClock(opts.Now),
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := mgr.Restore(ctx); err != nil {
		log.Warn("could not restore saved session", "error", err)
	}

	log.Debug("runtime ready", "base_url", conn.BaseURL(), "store", cfg.Store.Driver, "config", cfg.Path)

	return &Runtime{
		Config:  cfg,
		Log:     log,
		Metrics: metrics,
		Store:   store,
		Conn:    conn,
		Auth:    mgr,
		API:     api.New(conn),
		Now:     opts.Now,
		closer:  closer,
	}, nil
}
