package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

// UseCase manages the task lifecycle and enforces ownership rules.
// Every task belongs to the user that created it; only the owner or a
// super user may see or change it. The UseCase holds no per-request
// state, so one instance is shared across concurrent requests and the
// acting identity arrives as an explicit parameter on each call.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// ownerFilter derives the user id used to restrict queries. Super users
// see everything, so the filter is empty for them.
func (uc *UseCase) ownerFilter(actor domain.Actor) string {
	if actor.Super {
		return ""
	}
	return actor.ID
}

// GetTask returns a task by id when the actor is allowed to see it.
// A missing task and a visibility violation are distinct failures, so the
// fetch happens unfiltered and the ownership check runs afterwards.
func (uc *UseCase) GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if filter := uc.ownerFilter(actor); filter != "" && task.UserID != filter {
		return nil, domain.ErrTaskForbidden
	}

	return task, nil
}

// GetAllTasks lists every task visible to the actor, newest first.
func (uc *UseCase) GetAllTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{UserID: uc.ownerFilter(actor)})
}

// GetTasksByStatus lists the actor's visible tasks in the given status.
func (uc *UseCase) GetTasksByStatus(ctx context.Context, actor domain.Actor, status domain.TaskStatus) ([]domain.Task, error) {
	if err := domain.ValidateCommand(domain.UpdateStatusCommand{Status: status}); err != nil {
		return nil, err
	}
	return uc.tasks.List(ctx, repository.TaskFilter{
		UserID: uc.ownerFilter(actor),
		Status: status,
	})
}

// AddNewTask creates a task for the actor. New tasks always start in
// todo and are always attributed to the caller, super user or not.
func (uc *UseCase) AddNewTask(ctx context.Context, actor domain.Actor, command domain.CreateTaskCommand) (*domain.Task, error) {
	if err := domain.ValidateCommand(command); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       command.Title,
		Description: command.Description,
		Status:      domain.StatusTodo,
		UserID:      actor.ID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task created",
		zap.String("task_id", created.ID),
		zap.String("user_id", created.UserID))
	return created, nil
}

// UpdateExistingTask overwrites the title and description of a task.
// Status, owner and creation time stay untouched. Archived tasks are
// immutable.
func (uc *UseCase) UpdateExistingTask(ctx context.Context, actor domain.Actor, id string, command domain.UpdateTaskCommand) (*domain.Task, error) {
	if err := domain.ValidateCommand(command); err != nil {
		return nil, err
	}

	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if filter := uc.ownerFilter(actor); filter != "" && current.UserID != filter {
		return nil, domain.ErrTaskForbidden
	}

	if current.IsArchived() {
		return nil, domain.ErrTaskArchived
	}

	current.Title = command.Title
	current.Description = command.Description

	return uc.replace(ctx, current)
}

// UpdateStatus moves a task to a new lifecycle state. Any transition is
// allowed except out of archived, which is terminal; re-setting the same
// status is a no-op success. Only the owner or a super user may do this.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.TaskStatus) (*domain.Task, error) {
	if err := domain.ValidateCommand(domain.UpdateStatusCommand{Status: status}); err != nil {
		return nil, err
	}

	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Super && current.UserID != actor.ID {
		return nil, domain.ErrTaskForbidden
	}

	if current.IsArchived() {
		return nil, domain.ErrTaskArchived
	}

	current.Status = status

	return uc.replace(ctx, current)
}

// DeleteTask removes a task permanently. Only the owner or a super user
// may delete it.
func (uc *UseCase) DeleteTask(ctx context.Context, actor domain.Actor, id string) error {
	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.Super && current.UserID != actor.ID {
		return domain.ErrTaskForbidden
	}

	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("task deleted",
		zap.String("task_id", id),
		zap.String("actor_id", actor.ID))
	return nil
}

// replace persists a full update. Fetch-then-write is not atomic: a task
// deleted between the fetch and this write surfaces as not-found here and
// is reported as an unprocessable state, not as a missing task.
func (uc *UseCase) replace(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	updated, err := uc.tasks.Replace(ctx, task)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskGone
		}
		return nil, err
	}
	return updated, nil
}
