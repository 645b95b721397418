package attachment

import (
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/internal/infrastructure/blobstore"
	"github.com/eisengo/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	blobs  *blobstore.Store
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, blobs *blobstore.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		blobs:  blobs,
		logger: logger,
	}
}

// Upload stores the file under the task's namespace and records the stored
// reference on the matching task field. The file is written before the record
// is committed, so a crash in between can orphan a file but never leave a
// reference pointing at nothing. A superseded file of the same kind is
// removed after the commit, unless another kind still references it.
func (uc *UseCase) Upload(ctx context.Context, callerID, taskID string, kind domain.AttachmentKind, filename string, data []byte) (*domain.Task, error) {
	if !kind.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "invalid attachment kind")
	}
	if len(data) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "empty file")
	}

	task, err := uc.tasks.GetByOwner(ctx, callerID, taskID)
	if err != nil {
		return nil, err
	}

	ref, err := uc.blobs.Save(taskID, filename, data)
	if err != nil {
		return nil, err
	}

	previous := task.AttachmentPath(kind)
	task.SetAttachmentPath(kind, &ref)

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if previous != nil && *previous != ref && !referencedElsewhere(task, *previous) {
		if err := uc.blobs.Remove(*previous); err != nil {
			uc.logger.Warn("superseded attachment removal failed",
				zap.String("task_id", taskID), zap.String("ref", *previous), zap.Error(err))
		}
	}

	return task, nil
}

// Download returns the stored bytes for a filename under the task's
// namespace. Files belonging to another task, or present on disk without a
// matching recorded reference, are forbidden rather than missing so the two
// cases stay distinguishable.
func (uc *UseCase) Download(ctx context.Context, callerID, taskID, filename string) ([]byte, string, error) {
	task, err := uc.tasks.GetByOwner(ctx, callerID, taskID)
	if err != nil {
		return nil, "", err
	}

	ref, err := uc.blobs.Resolve(taskID, filename)
	if err != nil {
		return nil, "", err
	}

	if !uc.blobs.Exists(ref) {
		return nil, "", domain.ErrFileNotFound
	}

	recorded := false
	for _, p := range task.AttachmentPaths() {
		if p == ref {
			recorded = true
			break
		}
	}
	if !recorded {
		return nil, "", domain.ErrAttachmentDenied
	}

	data, err := uc.blobs.Read(ref)
	if err != nil {
		return nil, "", err
	}
	return data, path.Base(ref), nil
}

// referencedElsewhere reports whether another attachment kind on the task
// still records the given reference.
func referencedElsewhere(task *domain.Task, ref string) bool {
	for _, p := range task.AttachmentPaths() {
		if p == ref {
			return true
		}
	}
	return false
}
