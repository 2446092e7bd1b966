package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Manage this account's active sessions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List active sessions",
				Action:  sessionList,
			},
			{
				Name:      "revoke",
				Aliases:   []string{"rm"},
				Usage:     "End a session on another device",
				ArgsUsage: "SESSION_ID",
				Action:    sessionRevoke,
			},
		},
	}
}

func sessionList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	sessions, err := rt.API.ListSessions(c.Context)
	if err != nil {
		return err
	}

	p := printer(c)
	if len(sessions) == 0 && !p.Format.Machine() {
		p.Noticef("No active sessions.")
		return nil
	}
	return p.Print(sessions)
}

func sessionRevoke(c *cli.Context) error {
	raw, err := onlyArg(c, "session ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	key := connection.SessionKey(raw)
	if err := rt.API.RevokeSession(c.Context, key); err != nil {
		return err
	}
	printer(c).Noticef("Session %s revoked.", key)
	return nil
}
