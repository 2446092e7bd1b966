package domain

import (
	"math"
	"strings"
)

// Period selects the leaderboard time window.
type Period string

// Leaderboard periods.
const (
	PeriodAll   Period = "all"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
	PeriodDay   Period = "day"
)

// ParsePeriod validates a period name. An empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodMonth, PeriodWeek, PeriodDay:
		return p, nil
	default:
		return "", ErrInvalidPeriod.WithDetails(s)
	}
}

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	StudentID       int64   `json:"student_id,omitempty" table:"wide"`
	StudentName     string  `json:"student_name"`
	TotalPoints     float64 `json:"total_points"`
	SubmissionCount int     `json:"submission_count"`
}

// Leaderboard is a ranking for a group or the caller's class.
type Leaderboard struct {
	GroupID   int64              `json:"group_id,omitempty"`
	GroupName string             `json:"group_name,omitempty"`
	Period    Period             `json:"period,omitempty"`
	Entries   []LeaderboardEntry `json:"leaderboard"`
}

// RankOf returns the rank of the named student, or 0 when absent.
func (l *Leaderboard) RankOf(studentName string) int {
	if l == nil {
		return 0
	}
	for _, e := range l.Entries {
		if e.StudentName == studentName {
			return e.Rank
		}
	}
	return 0
}

// AverageFinalGrade returns the rounded mean of FinalGrade, 0 for none.
func AverageFinalGrade(subs []Submission) int {
	if len(subs) == 0 {
		return 0
	}
	var sum float64
	for _, s := range subs {
		sum += s.FinalGrade
	}
	return int(math.Round(sum / float64(len(subs))))
}
