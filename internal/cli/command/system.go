package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server status and client information",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "status",
				Usage:  "Show server status",
				Action: systemStatus,
			},
			{
				Name:   "constants",
				Usage:  "Show server application constants",
				Action: systemConstants,
			},
			{
				Name:   "version",
				Usage:  "Show client version information",
				Action: systemVersion,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	health, err := rt.API.Health(c.Context)
	if err != nil {
		return err
	}

	p := printer(c)
	if err := p.Print(health); err != nil {
		return err
	}
	if !health.Healthy() {
		p.Warnf("server at %s reports %q", rt.Conn.BaseURL(), health.Status)
	}
	return nil
}

func systemStatus(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	status, err := rt.API.Status(c.Context)
	if err != nil {
		return err
	}
	return printer(c).Print(status)
}

func systemConstants(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	constants, err := rt.API.Constants(c.Context)
	if err != nil {
		return err
	}
	return printer(c).Print(constants)
}

func systemVersion(c *cli.Context) error {
	return printer(c).Print(buildinfo.Get())
}
