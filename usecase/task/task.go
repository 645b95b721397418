package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/internal/config"
	"github.com/eisengo/backend/repository"
)

// AttachmentStore is the slice of the blob store the task usecase needs for
// cascade cleanup on delete.
type AttachmentStore interface {
	RemoveNamespace(taskID string) error
}

type UseCase struct {
	tasks       repository.TaskRepository
	attachments AttachmentStore
	titlePolicy config.TitlePolicy
	logger      *zap.Logger
}

func New(tasks repository.TaskRepository, attachments AttachmentStore, titlePolicy config.TitlePolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if titlePolicy == "" {
		titlePolicy = config.TitlePerUserExact
	}
	return &UseCase{
		tasks:       tasks,
		attachments: attachments,
		titlePolicy: titlePolicy,
		logger:      logger,
	}
}

// Create validates the classification literals and the title policy, then
// inserts a fresh task owned by the caller. Under the per-user policy a
// concurrent duplicate loses at the unique index and surfaces the same
// duplicate-title error as the pre-check.
func (uc *UseCase) Create(ctx context.Context, callerID string, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "title is required")
	}
	if err := validateEnums(task.Urgency, task.Importance, task.TimeFrame); err != nil {
		return nil, err
	}

	if err := uc.checkTitle(ctx, callerID, task.Title, ""); err != nil {
		return nil, err
	}

	task.ID = ""
	task.UserID = callerID
	task.Completed = false
	task.ImagePath = nil
	task.DocumentPath = nil
	task.VoiceNotePath = nil

	return uc.tasks.Create(ctx, task)
}

// List returns the caller's tasks matching the filter, insertion-ordered.
func (uc *UseCase) List(ctx context.Context, callerID string, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.Urgency != "" && !filter.Urgency.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid urgency filter")
	}
	if filter.Importance != "" && !filter.Importance.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid importance filter")
	}
	filter.OwnerID = callerID
	return uc.tasks.List(ctx, filter)
}

// Get returns the task only when it belongs to the caller.
func (uc *UseCase) Get(ctx context.Context, callerID, id string) (*domain.Task, error) {
	return uc.tasks.GetByOwner(ctx, callerID, id)
}

// Update applies the present fields of the partial update. An empty update
// returns the stored row untouched.
func (uc *UseCase) Update(ctx context.Context, callerID, id string, update domain.TaskUpdate) (*domain.Task, error) {
	task, err := uc.tasks.GetByOwner(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if update.Empty() {
		return task, nil
	}

	if update.Urgency != nil && !update.Urgency.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid urgency")
	}
	if update.Importance != nil && !update.Importance.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid importance")
	}
	if update.TimeFrame != nil && !update.TimeFrame.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid time frame")
	}
	if update.Title != nil {
		if *update.Title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalidField, "title cannot be empty")
		}
		if *update.Title != task.Title {
			if err := uc.checkTitle(ctx, callerID, *update.Title, id); err != nil {
				return nil, err
			}
		}
	}

	update.Apply(task)
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task and cascades removal of its attachment namespace.
func (uc *UseCase) Delete(ctx context.Context, callerID, id string) error {
	if err := uc.tasks.Delete(ctx, callerID, id); err != nil {
		return err
	}
	if uc.attachments != nil {
		if err := uc.attachments.RemoveNamespace(id); err != nil {
			// the row is already gone at this point
			uc.logger.Warn("attachment cleanup failed", zap.String("task_id", id), zap.Error(err))
		}
	}
	return nil
}

func (uc *UseCase) checkTitle(ctx context.Context, callerID, title, excludeID string) error {
	switch uc.titlePolicy {
	case config.TitleGlobalSubstring:
		exists, err := uc.tasks.TitleSubstringExists(ctx, title)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateTitle
		}
	default:
		exists, err := uc.tasks.TitleExists(ctx, callerID, title, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateTitle
		}
	}
	return nil
}

func validateEnums(urgency domain.Urgency, importance domain.Importance, timeFrame domain.TimeFrame) error {
	if !urgency.Valid() {
		return domain.NewError(domain.ErrCodeInvalidField, "invalid urgency")
	}
	if !importance.Valid() {
		return domain.NewError(domain.ErrCodeInvalidField, "invalid importance")
	}
	if !timeFrame.Valid() {
		return domain.NewError(domain.ErrCodeInvalidField, "invalid time frame")
	}
	return nil
}
