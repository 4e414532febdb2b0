// Package http provides the REST handlers and middleware for timeclock.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plattdot/timeclock/internal/domain/stats"
	"github.com/plattdot/timeclock/internal/domain/task"
	"github.com/plattdot/timeclock/internal/service"
)

// Handlers bundles the services the HTTP layer dispatches to.
type Handlers struct {
	Tasks *service.TaskService
	Stats *service.StatsService
}

// StartTask handles POST /api/v1/tasks/start
func (h *Handlers) StartTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.Start(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "could not start task")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// StopTask handles PUT /api/v1/tasks/{id}/stop
func (h *Handlers) StopTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := h.Tasks.Stop(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateManualTask handles POST /api/v1/tasks/manual
func (h *Handlers) CreateManualTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.ManualRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.CreateManual(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "could not record task")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTasks handles GET /api/v1/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, ok := queryInt(r, "limit", task.DefaultLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	opts := task.ListOptions{
		Page:     page,
		Limit:    limit,
		Category: task.Category(r.URL.Query().Get("category")),
	}
	result, err := h.Tasks.List(r.Context(), opts)
	if err != nil {
		writeDomainError(w, err, "could not list tasks")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CurrentTask handles GET /api/v1/tasks/current
func (h *Handlers) CurrentTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Current(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DailyStats handles GET /api/v1/stats/daily
func (h *Handlers) DailyStats(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(r, "date", time.Now())
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	result, err := h.Stats.Daily(r.Context(), date)
	if err != nil {
		writeDomainError(w, err, "could not compute daily stats")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// WeeklyStats handles GET /api/v1/stats/weekly
func (h *Handlers) WeeklyStats(w http.ResponseWriter, r *http.Request) {
	// Default week starts on the Monday of the current week.
	weekStart, ok := queryDate(r, "weekStart", stats.StartOfWeek(time.Now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "weekStart must be formatted YYYY-MM-DD")
		return
	}

	result, err := h.Stats.Weekly(r.Context(), weekStart)
	if err != nil {
		writeDomainError(w, err, "could not compute weekly stats")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TopTasks handles GET /api/v1/stats/top-tasks
func (h *Handlers) TopTasks(w http.ResponseWriter, r *http.Request) {
	period := stats.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = stats.PeriodWeek
	}
	limit, ok := queryInt(r, "limit", stats.DefaultRankingLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	rankings, err := h.Stats.TopTasks(r.Context(), period, limit)
	if err != nil {
		writeDomainError(w, err, "could not compute top tasks")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period stats.Period    `json:"period"`
		Tasks  []stats.Ranking `json:"tasks"`
	}{Period: period, Tasks: rankings})
}
