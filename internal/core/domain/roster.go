package domain

import "strings"

// TeacherInput is the body for creating or updating a teacher.
type TeacherInput struct {
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

// StudentInput is the body for creating or updating a student.
type StudentInput struct {
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	GroupID  *int64 `json:"group_id"`
}

// Group is a class of students led by a teacher.
type Group struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	TeacherID    int64     `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name,omitempty"`
	StudentCount int       `json:"student_count"`
	CreatedAt    Timestamp `json:"created_at,omitempty" table:"wide"`
}

// GroupInput is the body for creating or updating a group.
type GroupInput struct {
	Name      string `json:"name"`
	TeacherID int64  `json:"teacher_id"`
}

// NewTeacherInput builds a teacher body with the role fixed.
func NewTeacherInput(fullname, username, password string) TeacherInput {
	return TeacherInput{
		Fullname: strings.TrimSpace(fullname),
		Username: strings.TrimSpace(username),
		Password: password,
		Role:     RoleTeacher,
	}
}

// Validate checks required fields. Password is only required on create.
func (in TeacherInput) Validate(create bool) error {
	return validateAccount(in.Fullname, in.Username, in.Password, create)
}

// NewStudentInput builds a student body with the role fixed.
func NewStudentInput(fullname, username, password string, groupID *int64) StudentInput {
	return StudentInput{
		Fullname: strings.TrimSpace(fullname),
		Username: strings.TrimSpace(username),
		Password: password,
		Role:     RoleStudent,
		GroupID:  groupID,
	}
}

// Validate checks required fields. Password is only required on create.
func (in StudentInput) Validate(create bool) error {
	return validateAccount(in.Fullname, in.Username, in.Password, create)
}

// Validate checks required fields.
func (in GroupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrMissingArgument.WithDetails("name")
	}
	if in.TeacherID <= 0 {
		return ErrMissingArgument.WithDetails("teacher_id")
	}
	return nil
}

func validateAccount(fullname, username, password string, create bool) error {
	switch {
	case fullname == "":
		return ErrMissingArgument.WithDetails("fullname")
	case username == "":
		return ErrMissingArgument.WithDetails("username")
	case create && password == "":
		return ErrMissingArgument.WithDetails("password")
	}
	return nil
}
