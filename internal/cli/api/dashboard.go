package api

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

// DashboardSubmissionLimit is how many recent submissions a student
// dashboard shows.
const DashboardSubmissionLimit = 5

// AdminDashboard summarizes the whole installation.
type AdminDashboard struct {
	Teachers int `json:"teachers"`
	Students int `json:"students"`
	Groups   int `json:"groups"`
}

// TeacherDashboard summarizes the current teacher's work.
type TeacherDashboard struct {
	Assignments       int                 `json:"assignments"`
	ActiveAssignments int                 `json:"active_assignments"`
	Groups            int                 `json:"groups"`
	Submissions       int                 `json:"submissions"`
	RecentHomework    []domain.Homework   `json:"recent_homework"`
	RecentSubmissions []domain.Submission `json:"recent_submissions"`
}

// StudentDashboard summarizes the current student's progress.
// Rank is 0 when the student is not on the leaderboard.
type StudentDashboard struct {
	Available         int                 `json:"available"`
	Completed         int                 `json:"completed"`
	AverageGrade      int                 `json:"average_grade"`
	Rank              int                 `json:"rank"`
	Homework          []domain.Homework   `json:"homework"`
	RecentSubmissions []domain.Submission `json:"recent_submissions"`
}

// AdminDashboard fetches the roster sizes concurrently.
func (c *Client) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	var (
		teachers, students []domain.User
		groups             []domain.Group
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		teachers, err = c.ListTeachers(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		students, err = c.ListStudents(ctx, nil)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		groups, err = c.ListGroups(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Teachers: len(teachers),
		Students: len(students),
		Groups:   len(groups),
	}, nil
}

// TeacherDashboard fetches homework and groups concurrently, then the
// submissions of the first group. Failing to load submissions only
// leaves them empty.
func (c *Client) TeacherDashboard(ctx context.Context, now time.Time) (*TeacherDashboard, error) {
	var (
		homework []domain.Homework
		groups   []domain.Group
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		homework, err = c.TeacherHomework(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		groups, err = c.TeacherGroups(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var subs []domain.Submission
	if len(groups) > 0 {
		var err error
		subs, err = c.GroupSubmissions(ctx, groups[0].ID, nil)
		if err != nil {
			logger.FromContext(ctx).Warn("dashboard: could not load submissions",
				"group_id", groups[0].ID, "error", err)
			subs = nil
		}
	}

	d := &TeacherDashboard{
		Assignments:       len(homework),
		Groups:            len(groups),
		Submissions:       len(subs),
		RecentHomework:    head(homework, 5),
		RecentSubmissions: head(subs, 5),
	}
	for i := range homework {
		if homework[i].Deadline.After(now) {
			d.ActiveAssignments++
		}
	}
	return d, nil
}

// StudentDashboard fetches homework, recent submissions and the
// leaderboard concurrently. fullname locates the student's rank.
func (c *Client) StudentDashboard(ctx context.Context, fullname string) (*StudentDashboard, error) {
	var (
		homework []domain.Homework
		subs     []domain.Submission
		board    *domain.Leaderboard
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		homework, err = c.StudentHomework(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		subs, err = c.StudentSubmissions(ctx, DashboardSubmissionLimit)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		board, err = c.StudentLeaderboard(ctx, string(domain.PeriodAll))
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &StudentDashboard{
		Available:         len(homework),
		Completed:         len(subs),
		AverageGrade:      domain.AverageFinalGrade(subs),
		Rank:              board.RankOf(fullname),
		Homework:          head(homework, 5),
		RecentSubmissions: subs,
	}, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
