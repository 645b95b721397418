package repository

import (
	"context"

	"github.com/eisengo/backend/domain"
)

// UserCache is a read-through cache for resolved users on the auth hot path.
// Implementations return domain.ErrUserNotFound on a miss.
type UserCache interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, username string) error
}
