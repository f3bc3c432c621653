package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/todolist/internal/model"
)

const taskColumns = "id, user_id, name, description, start_at, end_at, created_at, updated_at"

// CreateTask inserts a new task and assigns its ID.
func (s *queries) CreateTask(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name must not be empty")
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.StartAt = t.StartAt.UTC()
	t.EndAt = t.EndAt.UTC()

	err := sqlx.GetContext(ctx, s.q, &t.ID, s.q.Rebind(`
		INSERT INTO tasks (
			user_id, name, description, start_at, end_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		t.UserID, t.Name, t.Description, t.StartAt, t.EndAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// GetTaskByID retrieves a single task by ID.
func (s *queries) GetTaskByID(ctx context.Context, id int64) (*model.Task, error) {
	var t model.Task
	err := sqlx.GetContext(ctx, s.q, &t,
		s.q.Rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return &t, nil
}

// GetTasksByUser retrieves the user's tasks, earliest start first.
func (s *queries) GetTasksByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	var tasks []model.Task
	err := sqlx.SelectContext(ctx, s.q, &tasks, s.q.Rebind(
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY start_at, id"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// UpdateTask overwrites the mutable fields of an existing task.
// The owner and ID are never changed.
func (s *queries) UpdateTask(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name must not be empty")
	}
	t.UpdatedAt = time.Now().UTC()
	t.StartAt = t.StartAt.UTC()
	t.EndAt = t.EndAt.UTC()

	result, err := s.q.ExecContext(ctx, s.q.Rebind(`
		UPDATE tasks SET
			name = ?, description = ?, start_at = ?, end_at = ?, updated_at = ?
		WHERE id = ?`),
		t.Name, t.Description, t.StartAt, t.EndAt, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", t.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *queries) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, s.q.Rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}
