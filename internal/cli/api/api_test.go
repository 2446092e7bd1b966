package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
	"github.com/yndnr/hwdesk-go/internal/storage"
	"github.com/yndnr/hwdesk-go/internal/telemetry/logger"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type fakeAPI struct {
	srv *httptest.Server

	mu     sync.Mutex
	calls  []recorded
	routes map[string]string
	status map[string]int
}

// newFakeAPI serves canned JSON keyed by "METHOD /path".
func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]string{}, status: map[string]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}

		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls = append(f.calls, rec)
		body, ok := f.routes[key]
		status := f.status[key]
		f.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = body
	f.status[method+" "+path] = status
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return recorded{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type instantTimer struct{}

func (instantTimer) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	f := newFakeAPI(t)
	c, err := connection.New(connection.Config{
		BaseURL:    f.srv.URL,
		Timeout:    time.Second,
		MaxRetries: 0,
	},
		connection.WithStore(storage.NewMemoryStore("")),
		connection.WithTimer(instantTimer{}),
		connection.WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	return New(c), f
}

func TestHealth(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/health", 200, `{"status":"healthy","database":"connected"}`)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.Equal(t, "connected", h.Database)

	f.on("GET", "/health", 200, `{"status":"degraded"}`)
	h, err = c.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, h.Healthy())
}

func TestStatusAndConstants(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/status", 200, `{"version":"1.2.0","users":12}`)
	f.on("GET", "/app/constants", 200, `{"max_devices":2}`)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", status["version"])

	consts, err := c.Constants(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, consts["max_devices"])
}

func TestListSessions_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare list", `[{"session_id":1,"device_name":"Laptop","is_current":true},{"session_id":2,"device_name":"Phone"}]`},
		{"sessions wrapper", `{"sessions":[{"session_id":1,"device_name":"Laptop","is_current":true},{"session_id":2,"device_name":"Phone"}]}`},
		{"active_sessions wrapper", `{"active_sessions":[{"id":1,"device_name":"Laptop","is_current":true},{"id":2,"device_name":"Phone"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newTestClient(t)
			f.on("GET", "/auth/sessions", 200, tt.body)

			sessions, err := c.ListSessions(context.Background())
			require.NoError(t, err)
			require.Len(t, sessions, 2)
			assert.Equal(t, connection.SessionKey("1"), sessions[0].SessionID)
			assert.True(t, sessions[0].IsCurrent)
			assert.Equal(t, "Phone", sessions[1].DeviceName)
		})
	}
}

func TestRevokeSession(t *testing.T) {
	c, f := newTestClient(t)
	f.on("DELETE", "/auth/sessions/42", http.StatusNoContent, "")

	require.NoError(t, c.RevokeSession(context.Background(), "42"))
	assert.Equal(t, "DELETE", f.last().Method)
	assert.Equal(t, "/auth/sessions/42", f.last().Path)
}

func TestAdminRoster(t *testing.T) {
	ctx := context.Background()
	c, f := newTestClient(t)
	f.on("POST", "/admin/teachers", 200, `{"id":5,"username":"bob","fullname":"Bob","role":"teacher"}`)
	f.on("PUT", "/admin/students/9", 200, `{"id":9,"username":"eve","fullname":"Eve","role":"student","group_id":3}`)
	f.on("GET", "/admin/students", 200, `[{"id":9,"username":"eve","fullname":"Eve","role":"student"}]`)
	f.on("DELETE", "/admin/groups/3", 200, `{"message":"deleted"}`)

	teacher, err := c.CreateTeacher(ctx, domain.NewTeacherInput("Bob", "bob", "pw"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), teacher.ID)
	assert.Equal(t, "teacher", f.last().Body["role"])
	assert.Equal(t, "pw", f.last().Body["password"])

	group := int64(3)
	_, err = c.UpdateStudent(ctx, 9, domain.NewStudentInput("Eve", "eve", "", &group))
	require.NoError(t, err)
	assert.NotContains(t, f.last().Body, "password")
	assert.EqualValues(t, 3, f.last().Body["group_id"])

	students, err := c.ListStudents(ctx, &group)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "group_id=3", f.last().Query)

	_, err = c.ListStudents(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, f.last().Query)

	require.NoError(t, c.DeleteGroup(ctx, 3))
}

func TestValidationHappensLocally(t *testing.T) {
	ctx := context.Background()
	c, f := newTestClient(t)

	_, err := c.CreateTeacher(ctx, domain.NewTeacherInput("Bob", "bob", ""))
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	_, err = c.CreateGroup(ctx, domain.GroupInput{Name: "A"})
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	_, err = c.UpdateGrade(ctx, 1, domain.GradeUpdate{FinalCodeQuality: 101})
	assert.ErrorIs(t, err, domain.ErrScoreOutOfRange)

	_, err = c.StudentLeaderboard(ctx, "year")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = c.Submit(ctx, 1, domain.SubmissionInput{})
	assert.ErrorIs(t, err, domain.ErrMissingArgument)

	assert.Zero(t, f.count(), "nothing should reach the server")
}

func TestLeaderboards(t *testing.T) {
	ctx := context.Background()
	c, f := newTestClient(t)
	board := `{"group_name":"CS-1","leaderboard":[{"rank":1,"student_name":"Ann","total_points":250},{"rank":2,"student_name":"Alice Doe","total_points":200}]}`
	f.on("GET", "/student/leaderboard", 200, board)
	f.on("GET", "/teacher/groups/4/leaderboard", 200, board)
	f.on("GET", "/admin/groups/4/leaderboard", 200, board)

	lb, err := c.StudentLeaderboard(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "period=all", f.last().Query)
	assert.Equal(t, domain.PeriodAll, lb.Period)
	assert.Equal(t, 2, lb.RankOf("Alice Doe"))

	lb, err = c.TeacherGroupLeaderboard(ctx, 4, "Week")
	require.NoError(t, err)
	assert.Equal(t, "period=week", f.last().Query)
	assert.Equal(t, int64(4), lb.GroupID)

	_, err = c.AdminGroupLeaderboard(ctx, 4, "month")
	require.NoError(t, err)
	assert.Equal(t, "/admin/groups/4/leaderboard", f.last().Path)
}

func TestTeacherEndpoints(t *testing.T) {
	ctx := context.Background()
	c, f := newTestClient(t)
	f.on("GET", "/teacher/groups/2/submissions", 200, `[{"id":11,"homework_id":8,"student_name":"Ann","final_grade":80}]`)
	f.on("GET", "/teacher/submissions/11/grade", 200, `{"submission_id":11,"final_task_completeness":90,"final_code_quality":80,"final_correctness":70}`)
	f.on("PUT", "/teacher/submissions/11/grade", 200, `{"submission_id":11,"final_task_completeness":100,"final_code_quality":80,"final_correctness":70}`)

	hw := int64(8)
	subs, err := c.GroupSubmissions(ctx, 2, &hw)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "homework_id=8", f.last().Query)

	g, err := c.SubmissionGrade(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 240, g.FinalTotal())

	g, err = c.UpdateGrade(ctx, 11, domain.GradeUpdate{FinalTaskCompleteness: 100, FinalCodeQuality: 80, FinalCorrectness: 70})
	require.NoError(t, err)
	assert.Equal(t, 250, g.FinalTotal())
	assert.EqualValues(t, 100, f.last().Body["final_task_completeness"])
}

func TestStudentSubmissions_DefaultLimit(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/student/submissions", 200, `[]`)

	_, err := c.StudentSubmissions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "limit=20", f.last().Query)
}

func TestTestGrading(t *testing.T) {
	c, f := newTestClient(t)
	f.on("POST", "/test/test-grading", 200, `{"total":85,"task_completeness":30,"code_quality":25,"correctness":30,"overall_feedback":"ok"}`)

	res, err := c.TestGrading(context.Background(), domain.GradingTestInput{
		Title:           "Sum",
		Description:     "Add numbers",
		Points:          100,
		FileExtension:   ".py",
		AIGradingPrompt: "Check it",
		Files:           []domain.SubmissionFile{{FileName: "main.py", Content: "print(1+2)"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 85, res.Total)
	assert.Equal(t, "Sum", f.last().Body["title"])
}

func TestErrorsPassThrough(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/admin/teachers", http.StatusForbidden, `{"detail":"Admins only"}`)

	_, err := c.ListTeachers(context.Background())
	assert.ErrorIs(t, err, connection.ErrForbidden)
}

func TestAdminDashboard(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/admin/teachers", 200, `[{"id":1},{"id":2}]`)
	f.on("GET", "/admin/students", 200, `[{"id":3},{"id":4},{"id":5}]`)
	f.on("GET", "/admin/groups", 200, `[{"id":1}]`)

	d, err := c.AdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AdminDashboard{Teachers: 2, Students: 3, Groups: 1}, *d)
}

func TestAdminDashboard_Error(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/admin/teachers", 200, `[]`)
	f.on("GET", "/admin/students", http.StatusInternalServerError, `{"detail":"boom"}`)
	f.on("GET", "/admin/groups", 200, `[]`)

	_, err := c.AdminDashboard(context.Background())
	assert.ErrorIs(t, err, connection.ErrServerError)
}

func TestTeacherDashboard(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c, f := newTestClient(t)
	f.on("GET", "/teacher/homework", 200, `[
		{"id":1,"title":"Past","deadline":"2024-04-01T00:00:00"},
		{"id":2,"title":"Soon","deadline":"2024-05-10T00:00:00"},
		{"id":3,"title":"Later","deadline":"2024-06-01T00:00:00"}]`)
	f.on("GET", "/teacher/groups", 200, `[{"id":7,"name":"CS-1"},{"id":8,"name":"CS-2"}]`)
	f.on("GET", "/teacher/groups/7/submissions", 200, `[{"id":1},{"id":2}]`)

	d, err := c.TeacherDashboard(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Assignments)
	assert.Equal(t, 2, d.ActiveAssignments)
	assert.Equal(t, 2, d.Groups)
	assert.Equal(t, 2, d.Submissions)
}

func TestTeacherDashboard_SubmissionsFailureIsNotFatal(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/teacher/homework", 200, `[]`)
	f.on("GET", "/teacher/groups", 200, `[{"id":7}]`)
	f.on("GET", "/teacher/groups/7/submissions", http.StatusInternalServerError, `{"detail":"boom"}`)

	d, err := c.TeacherDashboard(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, d.Submissions)
	assert.Empty(t, d.RecentSubmissions)
}

func TestStudentDashboard(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/student/homework", 200, `[{"id":1},{"id":2},{"id":3}]`)
	f.on("GET", "/student/submissions", 200, `[{"id":1,"final_grade":80},{"id":2,"final_grade":91}]`)
	f.on("GET", "/student/leaderboard", 200, `{"leaderboard":[{"rank":1,"student_name":"Ann"},{"rank":2,"student_name":"Alice Doe"}]}`)

	d, err := c.StudentDashboard(context.Background(), "Alice Doe")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Available)
	assert.Equal(t, 2, d.Completed)
	assert.Equal(t, 86, d.AverageGrade)
	assert.Equal(t, 2, d.Rank)

	d, err = c.StudentDashboard(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Zero(t, d.Rank)
}

func TestStudentDashboard_Error(t *testing.T) {
	c, f := newTestClient(t)
	f.on("GET", "/student/homework", 200, `[]`)
	f.on("GET", "/student/submissions", 200, `[]`)

	_, err := c.StudentDashboard(context.Background(), "Alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, connection.ErrNotFound))
}
