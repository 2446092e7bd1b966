package domain

import (
	"errors"
	"testing"
)

func TestGradeUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		update  GradeUpdate
		wantErr bool
	}{
		{"all in range", GradeUpdate{90, 80, 100}, false},
		{"zeros", GradeUpdate{0, 0, 0}, false},
		{"negative", GradeUpdate{-1, 80, 80}, true},
		{"above max", GradeUpdate{90, 101, 80}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrScoreOutOfRange) {
				t.Errorf("error should be ErrScoreOutOfRange, got %v", err)
			}
		})
	}
}

func TestGrade_FinalTotal(t *testing.T) {
	g := Grade{FinalTaskCompleteness: 90, FinalCodeQuality: 85, FinalCorrectness: 70}
	if got := g.FinalTotal(); got != 245 {
		t.Errorf("FinalTotal() = %d, want 245", got)
	}
}

func TestSubmissionInput_Validate(t *testing.T) {
	if err := (SubmissionInput{}).Validate(); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("empty submission: got %v", err)
	}
	in := SubmissionInput{Files: []SubmissionFile{{FileName: "main.py", Content: "  "}}}
	if err := in.Validate(); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("blank content: got %v", err)
	}
	in.Files[0].Content = "print('hi')"
	if err := in.Validate(); err != nil {
		t.Errorf("valid submission: got %v", err)
	}
}
