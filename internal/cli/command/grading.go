package command

import (
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/output"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// GradingCommand returns the grading subcommand group.
func GradingCommand() *cli.Command {
	return &cli.Command{
		Name:  "grading",
		Usage: "Try the AI grader",
		Subcommands: []*cli.Command{
			{
				Name:  "test",
				Usage: "Grade files against a task without saving anything",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "file", Aliases: []string{"f"}, Usage: "Source file (repeatable)", Required: true},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Value: "Test task", Usage: "Task title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Task description", Required: true},
					&cli.StringFlag{Name: "prompt", Usage: "Instructions for the AI grader", Required: true},
					&cli.IntFlag{Name: "points", Value: 100, Usage: "Maximum points"},
					&cli.StringFlag{Name: "ext", Usage: "File extension (default: from the first file)"},
				},
				Action: gradingTest,
			},
		},
	}
}

func gradingTest(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	paths := c.StringSlice("file")
	files, err := readFiles(stateOf(c).opts.Fs, paths)
	if err != nil {
		return err
	}
	ext := c.String("ext")
	if ext == "" && len(paths) > 0 {
		ext = filepath.Ext(paths[0])
	}

	in := domain.GradingTestInput{
		Title:           c.String("title"),
		Description:     c.String("description"),
		Points:          c.Int("points"),
		FileExtension:   ext,
		AIGradingPrompt: c.String("prompt"),
		Files:           files,
	}

	p := printer(c)
	spin := output.NewSpinner(p.Err, "Grading "+domain.LanguageName(ext)+" submission")
	spin.Start()
	result, err := rt.API.TestGrading(c.Context, in)
	if err != nil {
		spin.Fail("Grading failed")
		return err
	}
	spin.Success("Graded")
	return p.Print(result)
}
