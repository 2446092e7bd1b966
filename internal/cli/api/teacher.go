package api

import (
	"context"
	"net/url"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// TeacherHomework lists the homework created by the current teacher.
func (c *Client) TeacherHomework(ctx context.Context) ([]domain.Homework, error) {
	var out []domain.Homework
	return out, c.get(ctx, "/teacher/homework", nil, nil, &out)
}

// CreateHomework publishes a homework assignment.
func (c *Client) CreateHomework(ctx context.Context, in domain.HomeworkInput) (*domain.Homework, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Homework
	if err := c.post(ctx, "/teacher/homework", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHomework replaces a homework assignment.
func (c *Client) UpdateHomework(ctx context.Context, homeworkID int64, in domain.HomeworkInput) (*domain.Homework, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Homework
	if err := c.put(ctx, "/teacher/homework/{homework_id}", map[string]string{"homework_id": id(homeworkID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHomework deletes a homework assignment.
func (c *Client) DeleteHomework(ctx context.Context, homeworkID int64) error {
	return c.delete(ctx, "/teacher/homework/{homework_id}", map[string]string{"homework_id": id(homeworkID)})
}

// TeacherGroups lists the groups the current teacher teaches.
func (c *Client) TeacherGroups(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group
	return out, c.get(ctx, "/teacher/groups", nil, nil, &out)
}

// GroupSubmissions lists a group's submissions, optionally for one homework.
func (c *Client) GroupSubmissions(ctx context.Context, groupID int64, homeworkID *int64) ([]domain.Submission, error) {
	var query url.Values
	if homeworkID != nil {
		query = url.Values{"homework_id": {id(*homeworkID)}}
	}
	var out []domain.Submission
	return out, c.get(ctx, "/teacher/groups/{group_id}/submissions", map[string]string{"group_id": id(groupID)}, query, &out)
}

// TeacherGroupLeaderboard returns the ranking of one of the teacher's groups.
func (c *Client) TeacherGroupLeaderboard(ctx context.Context, groupID int64, period string) (*domain.Leaderboard, error) {
	return c.leaderboard(ctx, "/teacher/groups/{group_id}/leaderboard", &groupID, period)
}

// SubmissionGrade returns the AI and final scores of a submission.
func (c *Client) SubmissionGrade(ctx context.Context, submissionID int64) (*domain.Grade, error) {
	var out domain.Grade
	if err := c.get(ctx, "/teacher/submissions/{submission_id}/grade", map[string]string{"submission_id": id(submissionID)}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGrade overrides the final scores of a submission.
func (c *Client) UpdateGrade(ctx context.Context, submissionID int64, in domain.GradeUpdate) (*domain.Grade, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Grade
	if err := c.put(ctx, "/teacher/submissions/{submission_id}/grade", map[string]string{"submission_id": id(submissionID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
