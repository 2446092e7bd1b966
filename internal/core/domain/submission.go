package domain

import "strings"

// SubmissionFile is one source file of a submission.
type SubmissionFile struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// SubmissionInput is the body for submitting homework.
type SubmissionInput struct {
	Files []SubmissionFile `json:"files"`
}

// Validate requires at least one named, non-empty file.
func (in SubmissionInput) Validate() error {
	if len(in.Files) == 0 {
		return ErrMissingArgument.WithDetails("files")
	}
	for _, f := range in.Files {
		if strings.TrimSpace(f.FileName) == "" {
			return ErrMissingArgument.WithDetails("file_name")
		}
		if strings.TrimSpace(f.Content) == "" {
			return ErrMissingArgument.WithDetails("content of " + f.FileName)
		}
	}
	return nil
}

// Submission is a student's answer to a homework.
type Submission struct {
	ID            int64            `json:"id"`
	HomeworkID    int64            `json:"homework_id" table:"wide"`
	HomeworkTitle string           `json:"homework_title,omitempty"`
	StudentID     int64            `json:"student_id" table:"wide"`
	StudentName   string           `json:"student_name,omitempty"`
	SubmittedAt   Timestamp        `json:"submitted_at"`
	AIGrade       float64          `json:"ai_grade"`
	FinalGrade    float64          `json:"final_grade"`
	AIFeedback    string           `json:"ai_feedback,omitempty" table:"wide"`
	Files         []SubmissionFile `json:"files,omitempty" table:"-"`
}

// Grade is the AI assessment of a submission plus optional teacher overrides.
type Grade struct {
	SubmissionID             int64  `json:"submission_id"`
	AITaskCompleteness       int    `json:"ai_task_completeness"`
	AICodeQuality            int    `json:"ai_code_quality"`
	AICorrectness            int    `json:"ai_correctness"`
	FinalTaskCompleteness    int    `json:"final_task_completeness"`
	FinalCodeQuality         int    `json:"final_code_quality"`
	FinalCorrectness         int    `json:"final_correctness"`
	AIFeedback               string `json:"ai_feedback"`
	TaskCompletenessFeedback string `json:"task_completeness_feedback,omitempty"`
	CodeQualityFeedback      string `json:"code_quality_feedback,omitempty"`
	CorrectnessFeedback      string `json:"correctness_feedback,omitempty"`
}

// FinalTotal is the sum of the three final scores, out of 300.
func (g *Grade) FinalTotal() int {
	return g.FinalTaskCompleteness + g.FinalCodeQuality + g.FinalCorrectness
}

// GradeUpdate is the teacher's override of the final scores.
type GradeUpdate struct {
	FinalTaskCompleteness int `json:"final_task_completeness"`
	FinalCodeQuality      int `json:"final_code_quality"`
	FinalCorrectness      int `json:"final_correctness"`
}

// Validate checks every score is within 0..100.
func (g GradeUpdate) Validate() error {
	scores := []struct {
		name  string
		value int
	}{
		{"final_task_completeness", g.FinalTaskCompleteness},
		{"final_code_quality", g.FinalCodeQuality},
		{"final_correctness", g.FinalCorrectness},
	}
	for _, s := range scores {
		if s.value < 0 || s.value > 100 {
			return ErrScoreOutOfRange.WithDetails(s.name)
		}
	}
	return nil
}

// GradingTestInput is the body of the grading sandbox endpoint.
type GradingTestInput struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Points          int              `json:"points"`
	FileExtension   string           `json:"file_extension"`
	AIGradingPrompt string           `json:"ai_grading_prompt"`
	Files           []SubmissionFile `json:"files"`
}

// Validate checks the fields the sandbox requires.
func (in GradingTestInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return ErrMissingArgument.WithDetails("title")
	case strings.TrimSpace(in.Description) == "":
		return ErrMissingArgument.WithDetails("description")
	case strings.TrimSpace(in.AIGradingPrompt) == "":
		return ErrMissingArgument.WithDetails("ai_grading_prompt")
	}
	return SubmissionInput{Files: in.Files}.Validate()
}

// GradingResult is the sandbox's AI score breakdown.
type GradingResult struct {
	Total                    int    `json:"total"`
	TaskCompleteness         int    `json:"task_completeness"`
	CodeQuality              int    `json:"code_quality"`
	Correctness              int    `json:"correctness"`
	OverallFeedback          string `json:"overall_feedback"`
	TaskCompletenessFeedback string `json:"task_completeness_feedback"`
	CodeQualityFeedback      string `json:"code_quality_feedback"`
	CorrectnessFeedback      string `json:"correctness_feedback"`
}
