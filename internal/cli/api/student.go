package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// DefaultSubmissionLimit is the page size of StudentSubmissions.
const DefaultSubmissionLimit = 20

// StudentHomework lists homework assigned to the current student.
func (c *Client) StudentHomework(ctx context.Context) ([]domain.Homework, error) {
	var out []domain.Homework
	return out, c.get(ctx, "/student/homework", nil, nil, &out)
}

// StudentSubmissions lists the current student's latest submissions.
func (c *Client) StudentSubmissions(ctx context.Context, limit int) ([]domain.Submission, error) {
	if limit <= 0 {
		limit = DefaultSubmissionLimit
	}
	var out []domain.Submission
	return out, c.get(ctx, "/student/submissions", nil, url.Values{"limit": {strconv.Itoa(limit)}}, &out)
}

// Submit uploads a solution for grading.
func (c *Client) Submit(ctx context.Context, homeworkID int64, in domain.SubmissionInput) (*domain.Submission, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Submission
	if err := c.post(ctx, "/student/homework/{homework_id}/submit", map[string]string{"homework_id": id(homeworkID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentLeaderboard returns the ranking of the current student's group.
func (c *Client) StudentLeaderboard(ctx context.Context, period string) (*domain.Leaderboard, error) {
	return c.leaderboard(ctx, "/student/leaderboard", nil, period)
}

// StudentGrade returns the grade of one of the current student's submissions.
func (c *Client) StudentGrade(ctx context.Context, submissionID int64) (*domain.Grade, error) {
	var out domain.Grade
	if err := c.get(ctx, "/student/submissions/{submission_id}/grade", map[string]string{"submission_id": id(submissionID)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestGrading runs the AI grader on an ad-hoc assignment without saving anything.
func (c *Client) TestGrading(ctx context.Context, in domain.GradingTestInput) (*domain.GradingResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.GradingResult
	if err := c.post(ctx, "/test/test-grading", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
