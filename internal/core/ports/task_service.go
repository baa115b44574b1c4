package ports

import (
	"context"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

type TaskService interface {
	List(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Add(ctx context.Context, ownerID int64, text string) (int64, error)
	Toggle(ctx context.Context, taskID, ownerID int64) error
	Delete(ctx context.Context, taskID, ownerID int64) error
}
