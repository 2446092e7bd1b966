package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/auth"
	"github.com/yndnr/hwdesk-go/internal/cli/config"
	"github.com/yndnr/hwdesk-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"repl"},
		Usage:   "Start an interactive shell",
		Description: `Runs commands without the hwdesk-cli prefix, keeping one login and
one open session store. Global flags given to shell apply to every
command; per-command flags such as -o may be given before a command.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-history", Usage: "Do not read or write the history file"},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	st := stateOf(c)
	if st.nested {
		return errors.New("already in the interactive shell")
	}
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	in := bufio.NewReader(st.opts.Stdin)

	exec := func(ctx context.Context, args []string) error {
		sub := Options{
			Stdin:    in,
			Stdout:   st.opts.Stdout,
			Stderr:   st.opts.Stderr,
			Now:      st.opts.Now,
			Fs:       st.opts.Fs,
			runtime:  rt,
			terminal: st.opts.terminal,
		}
		if err := NewApp(sub).RunContext(ctx, append([]string{appName}, args...)); err != nil {
			return errors.New(Humanize(err))
		}
		return nil
	}

	historyFile := ""
	if !c.Bool("no-history") {
		historyFile = filepath.Join(config.HomeDir(), "history")
	}

	shell := repl.New(exec,
		repl.WithIO(in, st.opts.Stdout),
		repl.WithPrompt(func() string { return shellPrompt(rt.Auth) }),
		repl.WithHistory(repl.NewHistory(st.opts.Fs, historyFile)),
		repl.WithCompleter(repl.NewCompleter(commandNames(commands()))),
	)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	if interval := rt.Config.Auth.MonitorInterval; interval > 0 {
		go auth.NewMonitor(rt.Auth, interval).Run(ctx)
	}

	fmt.Fprintf(st.opts.Stdout, "Connected to %s. Type 'help' for commands, 'exit' to quit.\n", rt.Conn.BaseURL())
	return shell.Run(ctx)
}

func shellPrompt(m *auth.Manager) string {
	if u := m.User(); u != nil {
		return fmt.Sprintf("hwdesk(%s:%s)> ", u.Username, u.Role)
	}
	return "hwdesk> "
}

// commandNames lists commands and "command subcommand" pairs for
// completion. The shell itself is left out.
func commandNames(cmds []*cli.Command) []string {
	var names []string
	for _, cmd := range cmds {
		if cmd.Name == "shell" {
			continue
		}
		names = append(names, cmd.Name)
		for _, sub := range cmd.Subcommands {
			names = append(names, cmd.Name+" "+sub.Name)
		}
	}
	return names
}
