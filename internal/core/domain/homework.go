package domain

import (
	"sort"
	"strings"
	"time"
)

// languages maps homework file extensions to display names.
var languages = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".java":  "Java",
	".cpp":   "C++",
	".c":     "C",
	".ts":    "TypeScript",
	".go":    "Go",
	".rs":    "Rust",
	".dart":  "Dart",
	".kt":    "Kotlin",
	".swift": "Swift",
}

// LanguageName returns the language for a file extension, or the
// extension itself when unknown.
func LanguageName(ext string) string {
	if name, ok := languages[strings.ToLower(ext)]; ok {
		return name
	}
	return ext
}

// Extensions returns the supported file extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(languages))
	for ext := range languages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Homework is an assignment published to a group.
type Homework struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description" table:"wide"`
	Points          int       `json:"points"`
	StartDate       Timestamp `json:"start_date" table:"wide"`
	Deadline        Timestamp `json:"deadline"`
	LineLimit       int       `json:"line_limit" table:"wide"`
	FileExtension   string    `json:"file_extension"`
	GroupID         int64     `json:"group_id" table:"wide"`
	GroupName       string    `json:"group_name,omitempty"`
	TeacherName     string    `json:"teacher_name,omitempty" table:"wide"`
	AIGradingPrompt string    `json:"ai_grading_prompt,omitempty" table:"-"`
}

// Overdue reports whether the deadline has passed at now.
func (h *Homework) Overdue(now time.Time) bool {
	return !h.Deadline.IsZero() && h.Deadline.Before(now)
}

// HomeworkInput is the body for creating or updating homework.
type HomeworkInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Points          int       `json:"points"`
	StartDate       Timestamp `json:"start_date"`
	Deadline        Timestamp `json:"deadline"`
	LineLimit       int       `json:"line_limit"`
	FileExtension   string    `json:"file_extension"`
	GroupID         int64     `json:"group_id"`
	AIGradingPrompt string    `json:"ai_grading_prompt"`
}

// Validate checks required fields and the date range.
func (in HomeworkInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return ErrMissingArgument.WithDetails("title")
	case strings.TrimSpace(in.Description) == "":
		return ErrMissingArgument.WithDetails("description")
	case strings.TrimSpace(in.AIGradingPrompt) == "":
		return ErrMissingArgument.WithDetails("ai_grading_prompt")
	case in.GroupID <= 0:
		return ErrMissingArgument.WithDetails("group_id")
	case in.Points <= 0:
		return ErrInvalidArgument.WithDetails("points must be positive")
	case in.LineLimit < 0:
		return ErrInvalidArgument.WithDetails("line_limit must not be negative")
	case in.Deadline.IsZero():
		return ErrMissingArgument.WithDetails("deadline")
	}
	if _, ok := languages[strings.ToLower(in.FileExtension)]; !ok {
		return ErrInvalidArgument.WithDetails("unsupported file extension " + in.FileExtension)
	}
	if !in.StartDate.IsZero() && in.Deadline.Before(in.StartDate.Time) {
		return ErrInvalidArgument.WithDetails("deadline is before start_date")
	}
	return nil
}
