package repository

import (
	"context"

	"github.com/eisengo/backend/domain"
)

// TaskFilter narrows List results. OwnerID is mandatory: every query is
// scoped to the owning user. Nil/empty filter fields are ignored, set
// fields AND together.
type TaskFilter struct {
	OwnerID    string
	Completed  *bool
	Urgency    domain.Urgency
	Importance domain.Importance
	Search     string
}

type TaskRepository interface {
	// GetByOwner returns the task only when it exists and belongs to ownerID.
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update persists the full row, scoped to the task's owner.
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id string) error
	// TitleExists reports an exact per-owner title match, excluding excludeID
	// when non-empty (so updates don't collide with themselves).
	TitleExists(ctx context.Context, ownerID, title, excludeID string) (bool, error)
	// TitleSubstringExists reports a case-insensitive substring match against
	// any stored title, regardless of owner.
	TitleSubstringExists(ctx context.Context, fragment string) (bool, error)
}
