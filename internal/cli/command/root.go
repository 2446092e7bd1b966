package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/hwdesk-go/internal/cli/config"
	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/cli/output"
	"github.com/yndnr/hwdesk-go/internal/infra/buildinfo"
	"github.com/yndnr/hwdesk-go/internal/infra/shutdown"
	"github.com/yndnr/hwdesk-go/internal/storage"
)

const (
	appName  = "hwdesk-cli"
	stateKey = "hwdesk"
)

// Options customizes the application. The zero value uses the process
// streams, the configured session store and the real clock.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Store replaces the configured session store. It is not closed.
	Store storage.Store

	// Timer replaces the retry backoff timer.
	Timer connection.Timer

	// Now replaces the clock used for expiry and deadlines.
	Now func() time.Time

	// Fs backs the shell history file and files read for submission.
	Fs afero.Fs

	// Shutdown receives the cleanup hooks of the runtime.
	Shutdown *shutdown.Handler

	// runtime is set for commands run from the interactive shell.
	runtime *Runtime

	// terminal is Stdin when it is a terminal.
	terminal *os.File
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if f, ok := o.Stdin.(*os.File); ok && o.terminal == nil && term.IsTerminal(int(f.Fd())) {
		o.terminal = f
	}
	// Prompts of one run share a buffer so none of them loses input
	// read ahead by another.
	if _, ok := o.Stdin.(*bufio.Reader); !ok {
		o.Stdin = bufio.NewReader(o.Stdin)
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Shutdown == nil {
		o.Shutdown = shutdown.NewHandler(closeTimeout)
	}
	return o
}

// App creates the CLI application with default options.
func App() *cli.App {
	return NewApp(Options{})
}

// NewApp creates the CLI application.
func NewApp(opts Options) *cli.App {
	opts = opts.withDefaults()
	st := &appState{opts: opts, rt: opts.runtime, nested: opts.runtime != nil}

	return &cli.App{
		Name:                 appName,
		Usage:                "Homework Management System command-line client",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		Commands:             commands(),
		Reader:               opts.Stdin,
		Writer:               opts.Stdout,
		ErrWriter:            opts.Stderr,
		EnableBashCompletion: true,
		Metadata:             map[string]any{stateKey: st},
		Before: func(c *cli.Context) error {
			if c.IsSet("output") {
				if _, err := output.ParseFormat(c.String("output")); err != nil {
					return err
				}
			}
			st.overrides = overridesFrom(c)
			return nil
		},
		After: func(c *cli.Context) error {
			return st.close()
		},
		// Errors are reported by Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run executes the application and returns the process exit code.
func Run(ctx context.Context, args []string, opts Options) int {
	opts = opts.withDefaults()
	if err := NewApp(opts).RunContext(ctx, args); err != nil {
		fmt.Fprintf(opts.Stderr, "error: %s\n", Humanize(err))
		return 1
	}
	return 0
}

func commands() []*cli.Command {
	return []*cli.Command{
		LoginCommand(),
		LogoutCommand(),
		WhoamiCommand(),
		SessionCommand(),
		TeacherCommand(),
		StudentCommand(),
		GroupCommand(),
		HomeworkCommand(),
		SubmissionCommand(),
		GradeCommand(),
		LeaderboardCommand(),
		DashboardCommand(),
		GradingCommand(),
		SystemCommand(),
		ConfigCommand(),
		ShellCommand(),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.hwdesk/cli.yaml)",
			EnvVars: []string{"HWDESK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "API base URL (e.g., http://localhost:8000)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-attempt request timeout",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Retries after a network failure or timeout",
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "Device name reported at login",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, wide, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Session store: badger, redis, memory",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Write diagnostics to a rotating log file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// overridesFrom maps explicitly set global flags to config keys.
func overridesFrom(c *cli.Context) map[string]any {
	o := make(map[string]any)
	set := func(flag, key string, value any) {
		if c.IsSet(flag) {
			o[key] = value
		}
	}

	set("server", "api.base_url", c.String("server"))
	set("timeout", "api.timeout", c.Duration("timeout"))
	set("retries", "api.max_retries", c.Int("retries"))
	set("device", "auth.device_name", c.String("device"))
	set("output", "output.format", c.String("output"))
	set("store", "store.driver", c.String("store"))
	set("log-file", "log.file", c.String("log-file"))
	if c.Bool("verbose") {
		o["log.level"] = "debug"
	}
	return o
}

// appState is shared by every command of one application run.
type appState struct {
	opts      Options
	overrides map[string]any

	cfg *config.Loaded
	rt  *Runtime

	// nested is true inside the interactive shell, where the runtime
	// belongs to the outer application.
	nested bool
}

func stateOf(c *cli.Context) *appState {
	st, _ := c.App.Metadata[stateKey].(*appState)
	return st
}

func (st *appState) close() error {
	if st.nested || st.rt == nil {
		return nil
	}
	return st.rt.Close()
}

// loadConfig returns the effective configuration without validating it.
func loadConfig(c *cli.Context) (*config.Loaded, error) {
	st := stateOf(c)
	if st.rt != nil {
		return st.rt.Config, nil
	}
	if st.cfg == nil {
		cfg, err := config.Load(c.String("config"), st.overrides)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		st.cfg = cfg
	}
	return st.cfg, nil
}

// printer builds the printer for the current command. -o and -w win
// over the configured format.
func printer(c *cli.Context) *output.Printer {
	st := stateOf(c)

	format := output.FormatTable
	if cfg, err := loadConfig(c); err == nil {
		if f, err := output.ParseFormat(cfg.Output.Format); err == nil {
			format = f
		}
	}
	if c.IsSet("output") {
		if f, err := output.ParseFormat(c.String("output")); err == nil {
			format = f
		}
	}
	if c.Bool("wide") && format == output.FormatTable {
		format = output.FormatWide
	}
	return output.NewPrinter(st.opts.Stdout, st.opts.Stderr, format)
}
