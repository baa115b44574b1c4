package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

// TaskRepository persists tasks in the user_tasks table. Mutations always
// filter on both the task ID and the owner ID (the scoped predicate), so a
// guess at another user's task ID behaves exactly like a missing row.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListForOwner returns the owner's tasks ordered newest first, fully
// materialized.
func (r *TaskRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, task, completed FROM user_tasks WHERE user_id = ? ORDER BY id DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Insert creates a new incomplete task.
func (r *TaskRepository) Insert(ctx context.Context, ownerID int64, text string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_tasks (user_id, task) VALUES (?, ?)", ownerID, text)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task id: %w", err)
	}
	return id, nil
}

// ToggleCompleted flips the completion flag. Zero rows affected is success:
// the caller cannot tell a foreign task from a missing one.
func (r *TaskRepository) ToggleCompleted(ctx context.Context, taskID, ownerID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_tasks
		SET completed = CASE completed WHEN 0 THEN 1 ELSE 0 END
		WHERE id = ? AND user_id = ?`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	return nil
}

// Delete removes the task, with the same no-op semantics as ToggleCompleted.
func (r *TaskRepository) Delete(ctx context.Context, taskID, ownerID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_tasks WHERE id = ? AND user_id = ?", taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
