package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository"
)

// UserStorage is a map-backed UserRepository for tests and the memory backend.
type UserStorage struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
}

func NewUserStorage() *UserStorage {
	return &UserStorage{users: make(map[string]*domain.User)}
}

var _ repository.UserRepository = (*UserStorage)(nil)

func (s *UserStorage) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.NewError(domain.ErrCodeInvalidField, "missing user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	clone := *user
	s.users[user.ID] = &clone
	s.order = append(s.order, user.ID)
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStorage) List(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, *s.users[id])
	}
	return users, nil
}
