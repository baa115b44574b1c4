package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
)

// TaskService implements the per-user task list operations. Ownership is
// enforced by the repository's scoped predicates; the service never needs a
// separate authorization check.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

// List returns the owner's tasks, most recent first.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	return s.repo.ListForOwner(ctx, ownerID)
}

// Add creates a task. Blank or whitespace-only text is rejected with
// domain.ErrEmptyTask; the stored text keeps its original spacing.
func (s *TaskService) Add(ctx context.Context, ownerID int64, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, domain.ErrEmptyTask
	}

	id, err := s.repo.Insert(ctx, ownerID, text)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to insert task")
		return 0, err
	}

	s.logger.Info().Int64("task_id", id).Int64("owner_id", ownerID).Msg("task created")
	return id, nil
}

// Toggle flips the completion flag of (taskID, ownerID). A foreign or unknown
// task ID silently no-ops.
func (s *TaskService) Toggle(ctx context.Context, taskID, ownerID int64) error {
	return s.repo.ToggleCompleted(ctx, taskID, ownerID)
}

// Delete removes (taskID, ownerID), with the same no-op semantics as Toggle.
func (s *TaskService) Delete(ctx context.Context, taskID, ownerID int64) error {
	return s.repo.Delete(ctx, taskID, ownerID)
}
