package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// argID parses the only positional argument as a positive ID.
func argID(c *cli.Context, what string) (int64, error) {
	raw, err := onlyArg(c, what)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("%s %q", what, raw))
	}
	return id, nil
}

// onlyArg returns the single positional argument. urfave/cli stops
// parsing flags at the first positional argument, so a flag written
// after it arrives here as an argument and is rejected.
func onlyArg(c *cli.Context, what string) (string, error) {
	if c.NArg() < 1 {
		return "", domain.ErrMissingArgument.WithDetails(what)
	}
	if extra := c.Args().Tail(); len(extra) > 0 {
		if strings.HasPrefix(extra[0], "-") {
			return "", domain.ErrInvalidArgument.WithDetails(
				fmt.Sprintf("flag %s must come before the %s", extra[0], what))
		}
		return "", domain.ErrInvalidArgument.WithDetails(
			fmt.Sprintf("unexpected arguments after the %s: %s", what, strings.Join(extra, " ")))
	}
	return c.Args().First(), nil
}

// optionalID returns the flag value, or nil when the flag is unset.
func optionalID(c *cli.Context, flag string) *int64 {
	if !c.IsSet(flag) {
		return nil
	}
	v := c.Int64(flag)
	return &v
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}
}

// confirm asks a yes/no question unless --yes was given. EOF means no.
func confirm(c *cli.Context, question string) bool {
	if c.Bool("yes") {
		return true
	}
	answer, err := newPrompter(c).Line(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// stringOr returns the flag value when set, otherwise current.
func stringOr(c *cli.Context, flag, current string) string {
	if c.IsSet(flag) {
		return c.String(flag)
	}
	return current
}
