package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	api "github.com/plattdot/timeclock/internal/adapter/http"
	"github.com/plattdot/timeclock/internal/domain"
	"github.com/plattdot/timeclock/internal/domain/task"
	"github.com/plattdot/timeclock/internal/port/database"
	"github.com/plattdot/timeclock/internal/service"
)

var _ database.Store = (*memStore)(nil)

// memStore is an in-memory database.Store for handler tests.
type memStore struct {
	tasks []task.Task
}

func (m *memStore) CreateTask(_ context.Context, t *task.Task) error {
	if t.Status == task.StatusRunning {
		for i := range m.tasks {
			if m.tasks[i].Status == task.StatusRunning {
				return domain.ErrConflict
			}
		}
	}
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m *memStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) CompleteTask(_ context.Context, id string, endTime time.Time, duration int) (*task.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].Status == task.StatusRunning {
			m.tasks[i].Status = task.StatusCompleted
			m.tasks[i].EndTime = &endTime
			m.tasks[i].Duration = &duration
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) RunningTask(_ context.Context) (*task.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].Status == task.StatusRunning {
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListTasks(_ context.Context, opts task.ListOptions) ([]task.Task, int, error) {
	opts.Normalize()
	filtered := make([]task.Task, 0)
	for _, t := range m.tasks {
		if opts.Category == "" || t.Category == opts.Category {
			filtered = append(filtered, t)
		}
	}
	sort.SliceStable(filtered, func(a, b int) bool {
		return filtered[a].StartTime.After(filtered[b].StartTime)
	})
	total := len(filtered)
	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)
	return filtered[start:end], total, nil
}

func (m *memStore) CompletedBetween(_ context.Context, from, to time.Time) ([]task.Task, error) {
	result := make([]task.Task, 0)
	for _, t := range m.tasks {
		if t.Status != task.StatusCompleted || t.StartTime.Before(from) || t.StartTime.After(to) {
			continue
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].StartTime.Before(result[b].StartTime)
	})
	return result, nil
}

func newServer(store database.Store) *chi.Mux {
	r := chi.NewRouter()
	h := &api.Handlers{
		Tasks: service.NewTaskService(store, nil),
		Stats: service.NewStatsService(store, nil, 0, nil),
	}
	api.MountRoutes(r, h)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestStartTaskEndpoint(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "POST", "/api/v1/tasks/start", `{"title":"Write report","category":"work"}`)
	if rec.Code != 201 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	got := decodeBody[task.Task](t, rec)
	if got.Status != task.StatusRunning || got.Title != "Write report" || got.ID == "" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestStartTaskConflict(t *testing.T) {
	r := newServer(&memStore{})

	if rec := doRequest(t, r, "POST", "/api/v1/tasks/start", `{"title":"first","category":"work"}`); rec.Code != 201 {
		t.Fatalf("first start: %d", rec.Code)
	}
	rec := doRequest(t, r, "POST", "/api/v1/tasks/start", `{"title":"second","category":"study"}`)
	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["error"] != "a task is already running, stop it first" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestStartTaskValidation(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "POST", "/api/v1/tasks/start", `{"title":"","category":"gaming"}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if !strings.Contains(body["error"], "title must not be empty") ||
		!strings.Contains(body["error"], "category must be one of") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestStartTaskMalformedBody(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "POST", "/api/v1/tasks/start", `{"title":`)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStopTaskEndpoint(t *testing.T) {
	store := &memStore{tasks: []task.Task{{
		ID: "11111111-1111-1111-1111-111111111111", Title: "deep work",
		Category: task.CategoryWork, StartTime: time.Now().Add(-45 * time.Minute),
		Status: task.StatusRunning,
	}}}
	r := newServer(store)

	rec := doRequest(t, r, "PUT", "/api/v1/tasks/11111111-1111-1111-1111-111111111111/stop", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decodeBody[task.Task](t, rec)
	if got.Status != task.StatusCompleted || got.Duration == nil || got.EndTime == nil {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestStopTaskNotFound(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "PUT", "/api/v1/tasks/unknown/stop", "")
	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStopCompletedTask(t *testing.T) {
	end := time.Now()
	d := 30
	store := &memStore{tasks: []task.Task{{
		ID: "c1", Title: "done", Category: task.CategoryWork,
		StartTime: end.Add(-30 * time.Minute), EndTime: &end, Duration: &d,
		Status: task.StatusCompleted,
	}}}
	r := newServer(store)

	rec := doRequest(t, r, "PUT", "/api/v1/tasks/c1/stop", "")
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["error"] != "task is not running" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestManualTaskEndpoint(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "POST", "/api/v1/tasks/manual", `{"title":"Read book","category":"study","duration":90}`)
	if rec.Code != 201 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decodeBody[task.Task](t, rec)
	if got.Status != task.StatusCompleted || got.Duration == nil || *got.Duration != 90 {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestManualTaskDurationTooLarge(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "POST", "/api/v1/tasks/manual", `{"title":"x","category":"misc","duration":1441}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); !strings.Contains(body["error"], "must not exceed 1440") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestListTasksEndpoint(t *testing.T) {
	store := &memStore{}
	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 3; i++ {
		d := 10
		end := base.Add(time.Duration(i)*time.Hour + 10*time.Minute)
		cat := task.CategoryWork
		if i == 2 {
			cat = task.CategoryStudy
		}
		store.tasks = append(store.tasks, task.Task{
			ID: string(rune('a' + i)), Title: "t", Category: cat,
			StartTime: base.Add(time.Duration(i) * time.Hour),
			EndTime:   &end, Duration: &d, Status: task.StatusCompleted,
		})
	}
	r := newServer(store)

	rec := doRequest(t, r, "GET", "/api/v1/tasks", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	page := decodeBody[task.Page](t, rec)
	if page.Total != 3 || len(page.Tasks) != 3 || page.HasMore {
		t.Errorf("total=%d len=%d hasMore=%v", page.Total, len(page.Tasks), page.HasMore)
	}

	rec = doRequest(t, r, "GET", "/api/v1/tasks?category=study", "")
	page = decodeBody[task.Page](t, rec)
	if page.Total != 1 {
		t.Errorf("category filter: total=%d, want 1", page.Total)
	}

	rec = doRequest(t, r, "GET", "/api/v1/tasks?page=2&limit=2", "")
	page = decodeBody[task.Page](t, rec)
	if len(page.Tasks) != 1 || page.HasMore {
		t.Errorf("page 2: len=%d hasMore=%v", len(page.Tasks), page.HasMore)
	}
}

func TestListTasksBadQuery(t *testing.T) {
	r := newServer(&memStore{})

	for _, target := range []string{
		"/api/v1/tasks?page=zero",
		"/api/v1/tasks?page=0",
		"/api/v1/tasks?limit=-1",
		"/api/v1/tasks?category=gaming",
	} {
		if rec := doRequest(t, r, "GET", target, ""); rec.Code != 400 {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestCurrentTaskEndpoint(t *testing.T) {
	store := &memStore{}
	r := newServer(store)

	// Nothing running.
	rec := doRequest(t, r, "GET", "/api/v1/tasks/current", "")
	if rec.Code != 204 {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	store.tasks = append(store.tasks, task.Task{
		ID: "r1", Title: "busy", Category: task.CategoryWork,
		StartTime: time.Now(), Status: task.StatusRunning,
	})
	rec = doRequest(t, r, "GET", "/api/v1/tasks/current", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[task.Task](t, rec); got.ID != "r1" {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestDailyStatsEndpoint(t *testing.T) {
	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local)
	store := &memStore{}
	d1, d2 := 60, 30
	e1 := day.Add(10 * time.Hour)
	e2 := day.Add(15 * time.Hour)
	store.tasks = append(store.tasks,
		task.Task{ID: "a", Title: "t1", Category: task.CategoryWork, StartTime: day.Add(9 * time.Hour), EndTime: &e1, Duration: &d1, Status: task.StatusCompleted},
		task.Task{ID: "b", Title: "t2", Category: task.CategoryStudy, StartTime: day.Add(14 * time.Hour), EndTime: &e2, Duration: &d2, Status: task.StatusCompleted},
	)
	r := newServer(store)

	rec := doRequest(t, r, "GET", "/api/v1/stats/daily?date=2026-08-15", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decodeBody[struct {
		Date          string `json:"date"`
		TotalDuration int    `json:"totalDuration"`
		TaskCount     int    `json:"taskCount"`
	}](t, rec)
	if got.Date != "2026-08-15" || got.TotalDuration != 90 || got.TaskCount != 2 {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestDailyStatsBadDate(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "GET", "/api/v1/stats/daily?date=15-08-2026", "")
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["error"] != "date must be formatted YYYY-MM-DD" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestWeeklyStatsEndpoint(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "GET", "/api/v1/stats/weekly?weekStart=2026-08-24", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeBody[struct {
		WeekStart      string `json:"weekStart"`
		WeekEnd        string `json:"weekEnd"`
		DailyBreakdown []struct {
			Date     string `json:"date"`
			Duration int    `json:"duration"`
		} `json:"dailyBreakdown"`
	}](t, rec)
	if got.WeekStart != "2026-08-24" || got.WeekEnd != "2026-08-30" {
		t.Errorf("weekStart=%s weekEnd=%s", got.WeekStart, got.WeekEnd)
	}
	if len(got.DailyBreakdown) != 7 {
		t.Errorf("dailyBreakdown has %d entries, want 7", len(got.DailyBreakdown))
	}
}

func TestTopTasksEndpoint(t *testing.T) {
	store := &memStore{}
	now := time.Now()
	d := 60
	end := now.Add(-time.Hour)
	store.tasks = append(store.tasks, task.Task{
		ID: "a", Title: "Write report", Category: task.CategoryWork,
		StartTime: now.Add(-2 * time.Hour), EndTime: &end, Duration: &d,
		Status: task.StatusCompleted,
	})
	r := newServer(store)

	rec := doRequest(t, r, "GET", "/api/v1/stats/top-tasks", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeBody[struct {
		Period string `json:"period"`
		Tasks  []struct {
			Title         string `json:"title"`
			TotalDuration int    `json:"totalDuration"`
			Occurrences   int    `json:"occurrences"`
		} `json:"tasks"`
	}](t, rec)
	if got.Period != "week" {
		t.Errorf("default period = %q, want week", got.Period)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].TotalDuration != 60 || got.Tasks[0].Occurrences != 1 {
		t.Errorf("unexpected rankings: %+v", got.Tasks)
	}
}

func TestTopTasksBadPeriod(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "GET", "/api/v1/stats/top-tasks?period=month", "")
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["error"] != "period must be day or week" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	r := newServer(&memStore{})

	rec := doRequest(t, r, "GET", "/api/v1/", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["version"] == "" {
		t.Error("expected version in response")
	}
}
