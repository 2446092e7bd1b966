package command

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/api"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// SubmissionCommand returns the submission subcommand group.
func SubmissionCommand() *cli.Command {
	return &cli.Command{
		Name:    "submission",
		Aliases: []string{"sub"},
		Usage:   "Submit homework and review submissions",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your submissions (student) or a group's (teacher)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum submissions (student)", Value: api.DefaultSubmissionLimit},
					&cli.Int64Flag{Name: "group", Aliases: []string{"g"}, Usage: "Group ID (teacher)"},
					&cli.Int64Flag{Name: "homework", Usage: "Only this homework (teacher)"},
				},
				Action: submissionList,
			},
			{
				Name:      "submit",
				Usage:     "Submit source files for a homework (student)",
				ArgsUsage: "HOMEWORK_ID",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Source file to submit (repeatable)",
						Required: true,
					},
				},
				Action: submissionSubmit,
			},
		},
	}
}

// GradeCommand returns the grade subcommand group.
func GradeCommand() *cli.Command {
	return &cli.Command{
		Name:  "grade",
		Usage: "Show or override submission grades",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the grade of a submission",
				ArgsUsage: "SUBMISSION_ID",
				Action:    gradeShow,
			},
			{
				Name:      "set",
				Usage:     "Override final scores, each 0-100 (teacher)",
				ArgsUsage: "SUBMISSION_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "completeness", Usage: "Final task completeness score"},
					&cli.IntFlag{Name: "quality", Usage: "Final code quality score"},
					&cli.IntFlag{Name: "correctness", Usage: "Final correctness score"},
				},
				Action: gradeSet,
			},
		},
	}
}

func submissionList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	var subs []domain.Submission
	if rt.Auth.User().IsStudent() {
		subs, err = rt.API.StudentSubmissions(c.Context, c.Int("limit"))
	} else {
		if !c.IsSet("group") {
			return domain.ErrMissingArgument.WithDetails("--group")
		}
		subs, err = rt.API.GroupSubmissions(c.Context, c.Int64("group"), optionalID(c, "homework"))
	}
	if err != nil {
		return err
	}

	p := printer(c)
	if len(subs) == 0 && !p.Format.Machine() {
		p.Noticef("No submissions.")
		return nil
	}
	return p.Print(subs)
}

// readFiles loads the files named by --file.
func readFiles(fsys afero.Fs, paths []string) ([]domain.SubmissionFile, error) {
	files := make([]domain.SubmissionFile, 0, len(paths))
	for _, path := range paths {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, domain.SubmissionFile{
			FileName: filepath.Base(path),
			Content:  string(data),
		})
	}
	return files, nil
}

func submissionSubmit(c *cli.Context) error {
	homeworkID, err := argID(c, "homework ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	files, err := readFiles(stateOf(c).opts.Fs, c.StringSlice("file"))
	if err != nil {
		return err
	}

	sub, err := rt.API.Submit(c.Context, homeworkID, domain.SubmissionInput{Files: files})
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Submitted %d file(s) for homework %d.", len(files), homeworkID)
	return p.Print(sub)
}

func gradeShow(c *cli.Context) error {
	id, err := argID(c, "submission ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	var grade *domain.Grade
	if rt.Auth.User().IsStudent() {
		grade, err = rt.API.StudentGrade(c.Context, id)
	} else {
		grade, err = rt.API.SubmissionGrade(c.Context, id)
	}
	if err != nil {
		return err
	}

	p := printer(c)
	if err := p.Print(grade); err != nil {
		return err
	}
	p.Noticef("Final total: %d/300", grade.FinalTotal())
	return nil
}

func gradeSet(c *cli.Context) error {
	id, err := argID(c, "submission ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	current, err := rt.API.SubmissionGrade(c.Context, id)
	if err != nil {
		return err
	}
	update := domain.GradeUpdate{
		FinalTaskCompleteness: current.FinalTaskCompleteness,
		FinalCodeQuality:      current.FinalCodeQuality,
		FinalCorrectness:      current.FinalCorrectness,
	}
	if c.IsSet("completeness") {
		update.FinalTaskCompleteness = c.Int("completeness")
	}
	if c.IsSet("quality") {
		update.FinalCodeQuality = c.Int("quality")
	}
	if c.IsSet("correctness") {
		update.FinalCorrectness = c.Int("correctness")
	}

	grade, err := rt.API.UpdateGrade(c.Context, id, update)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Grade for submission %d updated.", id)
	return p.Print(grade)
}
