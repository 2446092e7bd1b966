package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner displays a progress animation while a request is in flight.
// A spinner on a non-terminal writer prints nothing.
type Spinner struct {
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration
	enabled  bool

	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
	started bool
}

// NewSpinner creates a new spinner.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 100 * time.Millisecond,
		enabled:  isTerminal(w),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start starts the animation.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the animation and clears the line. It is safe to call
// more than once.
func (s *Spinner) Stop() {
	s.halt("\r\033[K")
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	s.halt(fmt.Sprintf("\r\033[K✓ %s\n", message))
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.halt(fmt.Sprintf("\r\033[K✗ %s\n", message))
}

func (s *Spinner) halt(final string) {
	s.once.Do(func() {
		close(s.done)
		if !s.started {
			return
		}
		<-s.stopped
		fmt.Fprint(s.w, final)
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
