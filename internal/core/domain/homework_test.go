package domain

import (
	"errors"
	"testing"
	"time"
)

func validHomework() HomeworkInput {
	return HomeworkInput{
		Title:           "Calculator",
		Description:     "Write a calculate function",
		Points:          100,
		StartDate:       Timestamp{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		Deadline:        Timestamp{Time: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)},
		LineLimit:       200,
		FileExtension:   ".py",
		GroupID:         1,
		AIGradingPrompt: "Check division by zero handling",
	}
}

func TestHomeworkInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*HomeworkInput)
		wantErr error
	}{
		{"valid", func(*HomeworkInput) {}, nil},
		{"missing title", func(h *HomeworkInput) { h.Title = " " }, ErrMissingArgument},
		{"missing prompt", func(h *HomeworkInput) { h.AIGradingPrompt = "" }, ErrMissingArgument},
		{"missing group", func(h *HomeworkInput) { h.GroupID = 0 }, ErrMissingArgument},
		{"zero points", func(h *HomeworkInput) { h.Points = 0 }, ErrInvalidArgument},
		{"unknown language", func(h *HomeworkInput) { h.FileExtension = ".cob" }, ErrInvalidArgument},
		{"uppercase extension", func(h *HomeworkInput) { h.FileExtension = ".PY" }, nil},
		{"deadline before start", func(h *HomeworkInput) {
			h.Deadline = Timestamp{Time: h.StartDate.Add(-time.Hour)}
		}, ErrInvalidArgument},
		{"no deadline", func(h *HomeworkInput) { h.Deadline = Timestamp{} }, ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validHomework()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName(".go"); got != "Go" {
		t.Errorf("LanguageName(.go) = %q", got)
	}
	if got := LanguageName(".zig"); got != ".zig" {
		t.Errorf("LanguageName(.zig) = %q, want passthrough", got)
	}
	if n := len(Extensions()); n != 11 {
		t.Errorf("len(Extensions()) = %d, want 11", n)
	}
}

func TestHomework_Overdue(t *testing.T) {
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	h := Homework{Deadline: Timestamp{Time: now.Add(-time.Minute)}}
	if !h.Overdue(now) {
		t.Error("past deadline should be overdue")
	}
	h.Deadline = Timestamp{}
	if h.Overdue(now) {
		t.Error("missing deadline should not be overdue")
	}
}
