// Package service implements the task lifecycle manager and the
// statistics service on top of the store port.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	tcotel "github.com/plattdot/timeclock/internal/adapter/otel"
	"github.com/plattdot/timeclock/internal/domain"
	"github.com/plattdot/timeclock/internal/domain/task"
	"github.com/plattdot/timeclock/internal/port/database"
)

// TaskService owns the task lifecycle: starting and stopping timers,
// recording manual entries, and listing history. It enforces the
// at-most-one-running-task invariant together with the store.
type TaskService struct {
	store   database.Store
	metrics *tcotel.Metrics

	// now is the clock; swapped in tests for fixed instants.
	now func() time.Time
}

// NewTaskService creates a TaskService. metrics may be nil.
func NewTaskService(store database.Store, metrics *tcotel.Metrics) *TaskService {
	return &TaskService{store: store, metrics: metrics, now: time.Now}
}

// Start begins a timer on a new task. It fails with domain.ErrValidation
// on bad input and domain.ErrConflict when a task is already running.
func (s *TaskService) Start(ctx context.Context, req *task.CreateRequest) (*task.Task, error) {
	id := uuid.NewString()
	ctx, span := tcotel.StartLifecycleSpan(ctx, "start", id)
	defer span.End()

	// The running check comes before validation: an occupied running slot
	// is a conflict no matter what the caller sent. The store's partial
	// unique index closes the remaining race; a losing concurrent insert
	// also gets ErrConflict.
	running, err := s.store.RunningTask(ctx)
	if err != nil {
		return nil, fmt.Errorf("check running task: %w", err)
	}
	if running != nil {
		return nil, fmt.Errorf("start task: %w", domain.ErrConflict)
	}

	if err := task.ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	t := &task.Task{
		ID:        id,
		Title:     req.Title,
		Category:  req.Category,
		StartTime: now,
		Status:    task.StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TasksStarted.Add(ctx, 1)
	}
	slog.Info("task started", "task_id", t.ID, "category", t.Category)
	return t, nil
}

// Stop completes the running task with the given id. Duration is whole
// minutes, truncated: stopping within the starting minute records 0.
func (s *TaskService) Stop(ctx context.Context, id string) (*task.Task, error) {
	ctx, span := tcotel.StartLifecycleSpan(ctx, "stop", id)
	defer span.End()

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != task.StatusRunning {
		return nil, fmt.Errorf("stop task %s: %w", id, domain.ErrInvalidState)
	}

	endTime := s.now()
	duration := int(endTime.Sub(t.StartTime) / time.Minute)

	updated, err := s.store.CompleteTask(ctx, id, endTime, duration)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TasksStopped.Add(ctx, 1)
		s.metrics.TaskMinutes.Record(ctx, float64(duration))
	}
	slog.Info("task stopped", "task_id", id, "duration_min", duration)
	return updated, nil
}

// CreateManual records an already-finished task with an explicit duration
// in minutes. The task is completed immediately; its start time is derived
// by subtracting the duration from now.
func (s *TaskService) CreateManual(ctx context.Context, req *task.ManualRequest) (*task.Task, error) {
	if err := task.ValidateManualRequest(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ctx, span := tcotel.StartLifecycleSpan(ctx, "manual", id)
	defer span.End()

	endTime := s.now()
	duration := req.Duration
	t := &task.Task{
		ID:        id,
		Title:     req.Title,
		Category:  req.Category,
		StartTime: endTime.Add(-time.Duration(duration) * time.Minute),
		EndTime:   &endTime,
		Duration:  &duration,
		Status:    task.StatusCompleted,
		CreatedAt: endTime,
		UpdatedAt: endTime,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ManualEntries.Add(ctx, 1)
		s.metrics.TaskMinutes.Record(ctx, float64(duration))
	}
	slog.Info("manual task recorded", "task_id", t.ID, "duration_min", duration)
	return t, nil
}

// Current returns the running task, or nil when nothing is running.
// Having no running task is not an error.
func (s *TaskService) Current(ctx context.Context) (*task.Task, error) {
	return s.store.RunningTask(ctx)
}

// List returns one page of tasks ordered by start time descending,
// optionally filtered by category.
func (s *TaskService) List(ctx context.Context, opts task.ListOptions) (*task.Page, error) {
	if opts.Category != "" && !opts.Category.Valid() {
		return nil, fmt.Errorf("%w: category must be one of work, study, entertainment, misc", domain.ErrValidation)
	}
	opts.Normalize()

	tasks, total, err := s.store.ListTasks(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &task.Page{
		Tasks:   tasks,
		Total:   total,
		Page:    opts.Page,
		HasMore: opts.Page*opts.Limit < total,
	}, nil
}
