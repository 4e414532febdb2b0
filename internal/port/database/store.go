// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/plattdot/timeclock/internal/domain/task"
)

// Store is the port interface for task persistence.
type Store interface {
	// CreateTask inserts a fully-formed task. Inserting a second running
	// task returns domain.ErrConflict (the store owns the at-most-one-
	// running invariant).
	CreateTask(ctx context.Context, t *task.Task) error

	// GetTask returns the task with the given id, or domain.ErrNotFound.
	GetTask(ctx context.Context, id string) (*task.Task, error)

	// CompleteTask transitions a running task to completed, setting end
	// time and duration. Returns domain.ErrNotFound if no running task
	// with that id exists (it was completed concurrently or never existed).
	CompleteTask(ctx context.Context, id string, endTime time.Time, duration int) (*task.Task, error)

	// RunningTask returns the currently running task, or (nil, nil) when
	// none is running.
	RunningTask(ctx context.Context) (*task.Task, error)

	// ListTasks returns one page of tasks ordered by start time descending,
	// optionally filtered by category, plus the total matching count.
	ListTasks(ctx context.Context, opts task.ListOptions) ([]task.Task, int, error)

	// CompletedBetween returns completed tasks whose start time lies in
	// [from, to], ordered by start time then creation time ascending.
	CompletedBetween(ctx context.Context, from, to time.Time) ([]task.Task, error)
}
