package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plattdot/timeclock/internal/domain"
	"github.com/plattdot/timeclock/internal/domain/task"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, title, category, status, start_time, end_time, duration, created_at, updated_at`

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, title, category, status, start_time, end_time, duration, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Category, t.Status, t.StartTime, t.EndTime, t.Duration, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "tasks_one_running") {
			return fmt.Errorf("create task: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "get task %s", id)
	}
	return &t, nil
}

func (s *Store) CompleteTask(ctx context.Context, id string, endTime time.Time, duration int) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET status = $2, end_time = $3, duration = $4, updated_at = $3
		 WHERE id = $1 AND status = $5
		 RETURNING `+taskColumns,
		id, task.StatusCompleted, endTime, duration, task.StatusRunning)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "complete task %s", id)
	}
	return &t, nil
}

func (s *Store) RunningTask(ctx context.Context) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = $1`, task.StatusRunning)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("running task: %w", err)
	}
	return &t, nil
}

func (s *Store) ListTasks(ctx context.Context, opts task.ListOptions) ([]task.Task, int, error) {
	opts.Normalize()

	where, args := listFilter(opts.Category)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit
	args = append(args, opts.Limit, offset)
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks`+where+
			fmt.Sprintf(` ORDER BY start_time DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *Store) CompletedBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = $1 AND start_time >= $2 AND start_time <= $3
		 ORDER BY start_time ASC, created_at ASC`,
		task.StatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("completed between: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// listFilter builds the WHERE clause for list queries. Category empty
// means no filter.
func listFilter(category task.Category) (string, []any) {
	if category == "" {
		return "", nil
	}
	return " WHERE category = $1", []any{category}
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row scannable) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.Title, &t.Category, &t.Status, &t.StartTime,
		&t.EndTime, &t.Duration, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}
