// Package task synchronizes the user's task list with the remote store. The
// server is the sole authority: every successful mutation is followed by a
// full list re-fetch before the operation is considered complete, and the
// in-memory snapshot is always replaced wholesale, never merged.
package task

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/apiclient"
	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/usecase"
)

type UseCase struct {
	api    apiclient.Client
	guard  usecase.SessionGuard
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Task
}

func New(api apiclient.Client, guard usecase.SessionGuard, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		api:    api,
		guard:  guard,
		logger: logger,
	}
}

// List fetches the full task collection in server order and replaces the
// snapshot with it.
func (uc *UseCase) List(ctx context.Context) ([]domain.Task, error) {
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}
	tasks, err := uc.api.ListTasks(ctx, token)
	if err != nil {
		return nil, uc.classify(err)
	}
	uc.mu.Lock()
	uc.snapshot = tasks
	uc.mu.Unlock()
	return tasks, nil
}

// Create submits a new task and refreshes the list so the view reflects the
// server-assigned id and defaults; nothing is spliced in locally.
func (uc *UseCase) Create(ctx context.Context, draft domain.TaskDraft) ([]domain.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}
	msg, err := uc.api.CreateTask(ctx, token, transport.TaskCreateRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
	})
	if err != nil {
		return nil, uc.classify(err)
	}
	uc.logger.Debug("task created", zap.String("server_message", msg))
	return uc.List(ctx)
}

// Update applies a partial edit (full-form or a completed-only toggle) and
// refreshes.
func (uc *UseCase) Update(ctx context.Context, id int64, patch domain.TaskPatch) ([]domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}
	msg, err := uc.api.UpdateTask(ctx, token, id, transport.TaskUpdateRequest{
		Title:       patch.Title,
		Description: patch.Description,
		Priority:    patch.Priority,
		DueDate:     patch.DueDate,
		Completed:   patch.Completed,
	})
	if err != nil {
		return nil, uc.classify(err)
	}
	uc.logger.Debug("task updated", zap.Int64("task_id", id), zap.String("server_message", msg))
	return uc.List(ctx)
}

// Delete removes the task server-side and refreshes. Existence is not
// pre-checked; an unknown id comes back as a server rejection and the
// snapshot stays untouched.
func (uc *UseCase) Delete(ctx context.Context, id int64) ([]domain.Task, error) {
	token := uc.guard.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}
	if err := uc.api.DeleteTask(ctx, token, id); err != nil {
		return nil, uc.classify(err)
	}
	return uc.List(ctx)
}

// ToggleCompleted flips only the completed flag of the given task.
func (uc *UseCase) ToggleCompleted(ctx context.Context, item domain.Task) ([]domain.Task, error) {
	completed := !item.Completed
	return uc.Update(ctx, item.ID, domain.TaskPatch{Completed: &completed})
}

// Snapshot returns a copy of the last fetched list.
func (uc *UseCase) Snapshot() []domain.Task {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]domain.Task, len(uc.snapshot))
	copy(out, uc.snapshot)
	return out
}

// classify routes an unauthorized response through the session teardown
// before surfacing it.
func (uc *UseCase) classify(err error) error {
	if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		uc.guard.Invalidate()
		return domain.ErrSessionInvalid
	}
	return err
}
