package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one shell command given its words.
type Executor func(ctx context.Context, args []string) error

var builtins = []string{"exit", "quit", "help", "history", "complete"}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    func() string
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. A *bufio.Reader input is
// used as is, so commands can read from the same buffer.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets a prompt that is evaluated before every line, so it
// can reflect the login state.
func WithPrompt(prompt func() string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithCompleter sets the completer used by the complete builtin.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) { r.completer = c }
}

// New creates a REPL that hands each line to exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    func() string { return "hwdesk> " },
		exec:      exec,
		completer: NewCompleter(nil),
		history:   NewHistory(nil, ""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and executes lines until exit, EOF or ctx is cancelled.
// Command errors are printed and do not end the loop.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: could not load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: could not save history: %v\n", err)
		}
	}()

	// Input is read one line per prompt so commands that prompt for
	// more input can share the reader while they run.
	next := make(chan struct{})
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(r.input)
		for {
			select {
			case <-next:
			case <-ctx.Done():
				return
			}
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.output, r.prompt())

		// A final line without a newline arrives together with EOF, so
		// the reader may be gone by the next prompt.
		select {
		case next <- struct{}{}:
		case err := <-readErr:
			return r.stop(err)
		case <-ctx.Done():
			return r.stop(nil)
		}

		var line string
		select {
		case <-ctx.Done():
			return r.stop(nil)
		case err := <-readErr:
			return r.stop(err)
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done := r.dispatch(ctx, line); done {
			return nil
		}
	}
}

// stop ends the prompt line. EOF is a normal exit.
func (r *REPL) stop(err error) error {
	fmt.Fprintln(r.output)
	if err == io.EOF {
		return nil
	}
	return err
}

// dispatch runs one line and reports whether the shell should exit.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	args, err := Split(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
		}
		return false
	case "complete":
		prefix := strings.TrimSpace(strings.TrimPrefix(line, "complete"))
		for _, s := range r.completer.Complete(prefix) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}
