package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// LeaderboardCommand returns the leaderboard command.
func LeaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "leaderboard",
		Aliases: []string{"rank"},
		Usage:   "Show the ranking of a group (teacher, admin) or your class (student)",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "group", Aliases: []string{"g"}, Usage: "Group ID (teacher, admin)"},
			&cli.StringFlag{Name: "period", Value: string(domain.PeriodAll), Usage: "all, month, week or day"},
		},
		Action: leaderboardAction,
	}
}

func leaderboardAction(c *cli.Context) error {
	period, err := domain.ParsePeriod(c.String("period"))
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	user := rt.Auth.User()
	var board *domain.Leaderboard
	switch {
	case user.IsStudent():
		board, err = rt.API.StudentLeaderboard(c.Context, string(period))
	case !c.IsSet("group"):
		return domain.ErrMissingArgument.WithDetails("--group")
	case user.IsAdmin():
		board, err = rt.API.AdminGroupLeaderboard(c.Context, c.Int64("group"), string(period))
	default:
		board, err = rt.API.TeacherGroupLeaderboard(c.Context, c.Int64("group"), string(period))
	}
	if err != nil {
		return err
	}

	p := printer(c)
	if p.Format.Machine() {
		return p.Print(board)
	}
	if board.GroupName != "" {
		p.Noticef("%s, period: %s", board.GroupName, board.Period)
	} else {
		p.Noticef("Period: %s", board.Period)
	}
	if len(board.Entries) == 0 {
		p.Noticef("No ranked students yet.")
		return nil
	}
	return p.Print(board.Entries)
}
