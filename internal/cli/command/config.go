package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/hwdesk-go/internal/cli/config"
	"github.com/yndnr/hwdesk-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Inspect and create the local configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check the effective configuration",
				Action: configValidate,
			},
			{
				Name:  "init",
				Usage: "Write a config file with the default settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p := printer(c)
	if cfg.Path != "" {
		p.Noticef("# %s", cfg.Path)
	} else {
		p.Noticef("# defaults (no config file)")
	}

	if p.Format == output.FormatJSON {
		return p.Print(cfg.Redacted())
	}

	// Encoded directly so durations read as "30s".
	enc := yaml.NewEncoder(p.Out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return err
	}
	return enc.Close()
}

func configValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	source := cfg.Path
	if source == "" {
		source = "defaults"
	}
	printer(c).Noticef("Configuration OK (%s).", source)
	return nil
}

func configInit(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	printer(c).Noticef("Wrote %s.", path)
	return nil
}
