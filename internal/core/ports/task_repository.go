package ports

import (
	"context"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

// TaskRepository defines the interface for task persistence. Every operation
// is scoped by owner: a task ID that exists but belongs to another user is
// indistinguishable from one that does not exist at all.
type TaskRepository interface {
	// ListForOwner returns all tasks owned by ownerID, most recent first.
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)

	// Insert creates a new incomplete task and returns its ID.
	Insert(ctx context.Context, ownerID int64, text string) (int64, error)

	// ToggleCompleted flips the completion flag of the task identified by
	// (taskID, ownerID). When the pair matches no row the call succeeds as a
	// no-op.
	ToggleCompleted(ctx context.Context, taskID, ownerID int64) error

	// Delete removes the task identified by (taskID, ownerID), with the same
	// no-op semantics as ToggleCompleted.
	Delete(ctx context.Context, taskID, ownerID int64) error
}
