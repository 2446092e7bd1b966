package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func recordingHooks(h *Handler, n int) (*[]int, *sync.Mutex) {
	order := make([]int, 0, n)
	var mu sync.Mutex
	for i := 1; i <= n; i++ {
		id := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			return nil
		})
	}
	return &order, &mu
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Shutdown_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)
	order, mu := recordingHooks(h, 3)

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*order) != 3 || (*order)[0] != 3 || (*order)[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", *order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Shutdown")
	}
}

func TestHandler_Shutdown_Once(t *testing.T) {
	h := NewHandler(time.Second)
	calls := 0
	h.OnShutdown(func(context.Context) error {
		calls++
		return nil
	})

	_ = h.Shutdown()
	_ = h.Shutdown()
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestHandler_Shutdown_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("close store")
	errB := errors.New("write metrics")

	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() = %v, want both errors", err)
	}
}

func TestHandler_Shutdown_Deadline(t *testing.T) {
	h := NewHandler(20 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := h.Shutdown()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("hook deadline was not applied")
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5 * time.Second)
	order, mu := recordingHooks(h, 2)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*order) != 2 {
		t.Errorf("expected 2 hooks called, got %d", len(*order))
	}
}

func TestHandler_Context_CancelledBySignal(t *testing.T) {
	h := NewHandler(time.Second)
	ctx, stop := h.Context(context.Background())
	defer stop()

	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}
