package api

import (
	"context"
	"net/url"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// ListTeachers lists teacher accounts.
func (c *Client) ListTeachers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	return out, c.get(ctx, "/admin/teachers", nil, nil, &out)
}

// CreateTeacher creates a teacher account.
func (c *Client) CreateTeacher(ctx context.Context, in domain.TeacherInput) (*domain.User, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	var out domain.User
	if err := c.post(ctx, "/admin/teachers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeacher updates a teacher. An empty password keeps the current one.
func (c *Client) UpdateTeacher(ctx context.Context, teacherID int64, in domain.TeacherInput) (*domain.User, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	var out domain.User
	if err := c.put(ctx, "/admin/teachers/{teacher_id}", map[string]string{"teacher_id": id(teacherID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeacher deletes a teacher.
func (c *Client) DeleteTeacher(ctx context.Context, teacherID int64) error {
	return c.delete(ctx, "/admin/teachers/{teacher_id}", map[string]string{"teacher_id": id(teacherID)})
}

// ListStudents lists students, optionally filtered by group.
func (c *Client) ListStudents(ctx context.Context, groupID *int64) ([]domain.User, error) {
	var query url.Values
	if groupID != nil {
		query = url.Values{"group_id": {id(*groupID)}}
	}
	var out []domain.User
	return out, c.get(ctx, "/admin/students", nil, query, &out)
}

// CreateStudent creates a student account.
func (c *Client) CreateStudent(ctx context.Context, in domain.StudentInput) (*domain.User, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	var out domain.User
	if err := c.post(ctx, "/admin/students", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent updates a student. An empty password keeps the current one.
func (c *Client) UpdateStudent(ctx context.Context, studentID int64, in domain.StudentInput) (*domain.User, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	var out domain.User
	if err := c.put(ctx, "/admin/students/{student_id}", map[string]string{"student_id": id(studentID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent deletes a student.
func (c *Client) DeleteStudent(ctx context.Context, studentID int64) error {
	return c.delete(ctx, "/admin/students/{student_id}", map[string]string{"student_id": id(studentID)})
}

// ListGroups lists all groups.
func (c *Client) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group
	return out, c.get(ctx, "/admin/groups", nil, nil, &out)
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Group
	if err := c.post(ctx, "/admin/groups", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGroup renames a group or changes its teacher.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, in domain.GroupInput) (*domain.Group, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out domain.Group
	if err := c.put(ctx, "/admin/groups/{group_id}", map[string]string{"group_id": id(groupID)}, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupID int64) error {
	return c.delete(ctx, "/admin/groups/{group_id}", map[string]string{"group_id": id(groupID)})
}

// AdminGroupLeaderboard returns the ranking of any group.
func (c *Client) AdminGroupLeaderboard(ctx context.Context, groupID int64, period string) (*domain.Leaderboard, error) {
	return c.leaderboard(ctx, "/admin/groups/{group_id}/leaderboard", &groupID, period)
}

func (c *Client) leaderboard(ctx context.Context, path string, groupID *int64, period string) (*domain.Leaderboard, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	var params map[string]string
	if groupID != nil {
		params = map[string]string{"group_id": id(*groupID)}
	}

	var out domain.Leaderboard
	if err := c.get(ctx, path, params, url.Values{"period": {string(p)}}, &out); err != nil {
		return nil, err
	}
	out.Period = p
	if groupID != nil && out.GroupID == 0 {
		out.GroupID = *groupID
	}
	return &out, nil
}
