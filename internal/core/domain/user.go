package domain

import "strings"

// Role is an account role.
type Role string

// Account roles.
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// User is the authenticated account returned by login.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	Role      Role      `json:"role"`
	GroupID   *int64    `json:"group_id,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
}

// HasRole reports whether the user has exactly the given role.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	return Role(strings.ToLower(string(u.Role))) == role
}

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsTeacher reports whether the user may use teacher endpoints.
// Administrators are teachers as well.
func (u *User) IsTeacher() bool {
	return u.HasRole(RoleTeacher) || u.IsAdmin()
}

// IsStudent reports whether the user is a student.
func (u *User) IsStudent() bool {
	return u.HasRole(RoleStudent)
}

// DisplayName returns the full name, falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}
