package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/output"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Usage:   "Show a summary for your role",
		Action:  dashboardAction,
	}
}

type countRow struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func dashboardAction(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	ctx := logger.WithAttrs(logger.NewContext(c.Context, rt.Log), "command", "dashboard")
	user := rt.Auth.User()
	p := printer(c)

	spin := output.NewSpinner(p.Err, "Loading dashboard")
	spin.Start()
	defer spin.Stop()

	switch {
	case user.IsAdmin():
		d, err := rt.API.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		spin.Stop()
		if p.Format.Machine() {
			return p.Print(d)
		}
		return p.Print([]countRow{
			{"Teachers", d.Teachers},
			{"Students", d.Students},
			{"Groups", d.Groups},
		})

	case user.IsTeacher():
		d, err := rt.API.TeacherDashboard(ctx, rt.Now())
		if err != nil {
			return err
		}
		spin.Stop()
		if p.Format.Machine() {
			return p.Print(d)
		}
		if err := p.Print([]countRow{
			{"Assignments", d.Assignments},
			{"Active assignments", d.ActiveAssignments},
			{"Groups", d.Groups},
			{"Submissions (first group)", d.Submissions},
		}); err != nil {
			return err
		}
		if len(d.RecentSubmissions) > 0 {
			p.Noticef("\nRecent submissions:")
			return p.Print(d.RecentSubmissions)
		}
		return nil

	default:
		d, err := rt.API.StudentDashboard(ctx, user.DisplayName())
		if err != nil {
			return err
		}
		spin.Stop()
		if p.Format.Machine() {
			return p.Print(d)
		}
		rows := []countRow{
			{"Available homework", d.Available},
			{"Completed", d.Completed},
			{"Average grade", d.AverageGrade},
		}
		if d.Rank > 0 {
			rows = append(rows, countRow{"Rank", d.Rank})
		}
		if err := p.Print(rows); err != nil {
			return err
		}
		if len(d.Homework) > 0 {
			p.Noticef("\nHomework:")
			return p.Print(d.Homework)
		}
		return nil
	}
}
