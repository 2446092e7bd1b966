package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/output"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

var errHomeworkNotFound = domain.ErrInvalidArgument.WithDetails("homework not found")

func homeworkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title"},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Task description"},
		&cli.IntFlag{Name: "points", Usage: "Maximum points", Value: 100},
		&cli.StringFlag{Name: "start", Usage: "Start date, e.g. 2024-03-01T09:00 (UTC unless an offset is given)"},
		&cli.StringFlag{Name: "deadline", Usage: "Deadline, same format as --start"},
		&cli.IntFlag{Name: "line-limit", Usage: "Maximum lines per file, 0 for none"},
		&cli.StringFlag{Name: "ext", Usage: "Required file extension", Value: ".py"},
		&cli.Int64Flag{Name: "group", Aliases: []string{"g"}, Usage: "Group ID"},
		&cli.StringFlag{Name: "prompt", Usage: "Instructions for the AI grader"},
	}
}

// HomeworkCommand returns the homework subcommand group.
func HomeworkCommand() *cli.Command {
	return &cli.Command{
		Name:    "homework",
		Aliases: []string{"hw"},
		Usage:   "List and manage homework",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List homework (your own as teacher, available as student)",
				Action:  homeworkList,
			},
			{
				Name:   "create",
				Usage:  "Publish homework to a group (teacher)",
				Flags:  homeworkFlags(),
				Action: homeworkCreate,
			},
			{
				Name:      "update",
				Usage:     "Change homework (teacher)",
				ArgsUsage: "HOMEWORK_ID",
				Flags:     homeworkFlags(),
				Action:    homeworkUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete homework (teacher)",
				ArgsUsage: "HOMEWORK_ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    homeworkDelete,
			},
			{
				Name:   "languages",
				Usage:  "List supported file extensions",
				Action: homeworkLanguages,
			},
		},
	}
}

func homeworkList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	var items []domain.Homework
	if rt.Auth.User().IsStudent() {
		items, err = rt.API.StudentHomework(c.Context)
	} else {
		items, err = rt.API.TeacherHomework(c.Context)
	}
	if err != nil {
		return err
	}

	p := printer(c)
	if p.Format == output.FormatWide {
		return p.Print(items)
	}

	now := rt.Now()
	t := output.NewTable("ID", "TITLE", "GROUP", "POINTS", "DEADLINE", "LANGUAGE", "STATUS")
	for _, h := range items {
		status := "open"
		if h.Overdue(now) {
			status = "closed"
		}
		group := h.GroupName
		if group == "" {
			group = strconv.FormatInt(h.GroupID, 10)
		}
		t.AddRow(
			strconv.FormatInt(h.ID, 10),
			h.Title,
			group,
			strconv.Itoa(h.Points),
			h.Deadline.String(),
			domain.LanguageName(h.FileExtension),
			status,
		)
	}
	return p.PrintTable(t, items)
}

func parseDate(c *cli.Context, flag string) (domain.Timestamp, error) {
	ts, err := domain.ParseTimestamp(c.String(flag))
	if err != nil {
		return domain.Timestamp{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return ts, nil
}

func homeworkCreate(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	start, err := parseDate(c, "start")
	if err != nil {
		return err
	}
	deadline, err := parseDate(c, "deadline")
	if err != nil {
		return err
	}
	if start.IsZero() {
		start = domain.Timestamp{Time: rt.Now().UTC()}
	}

	in := domain.HomeworkInput{
		Title:           c.String("title"),
		Description:     c.String("description"),
		Points:          c.Int("points"),
		StartDate:       start,
		Deadline:        deadline,
		LineLimit:       c.Int("line-limit"),
		FileExtension:   c.String("ext"),
		GroupID:         c.Int64("group"),
		AIGradingPrompt: c.String("prompt"),
	}
	hw, err := rt.API.CreateHomework(c.Context, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Homework %q created.", hw.Title)
	return p.Print(hw)
}

func homeworkUpdate(c *cli.Context) error {
	id, err := argID(c, "homework ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	items, err := rt.API.TeacherHomework(c.Context)
	if err != nil {
		return err
	}
	var cur *domain.Homework
	for i := range items {
		if items[i].ID == id {
			cur = &items[i]
			break
		}
	}
	if cur == nil {
		return errHomeworkNotFound
	}

	in := domain.HomeworkInput{
		Title:           stringOr(c, "title", cur.Title),
		Description:     stringOr(c, "description", cur.Description),
		Points:          cur.Points,
		StartDate:       cur.StartDate,
		Deadline:        cur.Deadline,
		LineLimit:       cur.LineLimit,
		FileExtension:   stringOr(c, "ext", cur.FileExtension),
		GroupID:         cur.GroupID,
		AIGradingPrompt: stringOr(c, "prompt", cur.AIGradingPrompt),
	}
	if c.IsSet("points") {
		in.Points = c.Int("points")
	}
	if c.IsSet("line-limit") {
		in.LineLimit = c.Int("line-limit")
	}
	if c.IsSet("group") {
		in.GroupID = c.Int64("group")
	}
	if c.IsSet("start") {
		if in.StartDate, err = parseDate(c, "start"); err != nil {
			return err
		}
	}
	if c.IsSet("deadline") {
		if in.Deadline, err = parseDate(c, "deadline"); err != nil {
			return err
		}
	}

	hw, err := rt.API.UpdateHomework(c.Context, id, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Homework %d updated.", id)
	return p.Print(hw)
}

func homeworkDelete(c *cli.Context) error {
	id, err := argID(c, "homework ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	p := printer(c)
	if !confirm(c, fmt.Sprintf("Delete homework %d and its submissions?", id)) {
		p.Noticef("Cancelled.")
		return nil
	}
	if err := rt.API.DeleteHomework(c.Context, id); err != nil {
		return err
	}
	p.Noticef("Homework %d deleted.", id)
	return nil
}

type languageRow struct {
	Extension string `json:"extension"`
	Language  string `json:"language"`
}

func homeworkLanguages(c *cli.Context) error {
	exts := domain.Extensions()
	rows := make([]languageRow, 0, len(exts))
	for _, ext := range exts {
		rows = append(rows, languageRow{Extension: ext, Language: domain.LanguageName(ext)})
	}
	return printer(c).Print(rows)
}
