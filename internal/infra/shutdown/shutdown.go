package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook is a cleanup function.
type Hook func(context.Context) error

// Handler runs cleanup hooks on exit.
type Handler struct {
	timeout time.Duration

	mu    sync.Mutex
	hooks []Hook

	once sync.Once
	err  error
	done chan struct{}
}

// NewHandler creates a Handler whose hooks share the given deadline.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		hooks:   make([]Hook, 0),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Context returns a context cancelled on SIGINT or SIGTERM. Call stop
// to release the signal handler.
func (h *Handler) Context(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Shutdown runs the hooks in reverse registration order and returns
// their joined errors. Later calls return the first result.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
	return h.err
}

// Wait blocks until SIGINT or SIGTERM, then runs Shutdown.
func (h *Handler) Wait() error {
	ctx, stop := h.Context(context.Background())
	defer stop()
	<-ctx.Done()
	return h.Shutdown()
}

// Done is closed once the hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
