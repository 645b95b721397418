package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository"
)

// TaskStorage is a map-backed TaskRepository keeping insertion order,
// matching the created_at ordering of the Postgres implementation.
type TaskStorage struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{tasks: make(map[string]*domain.Task)}
}

var _ repository.TaskRepository = (*TaskStorage)(nil)

func (s *TaskStorage) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (s *TaskStorage) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []domain.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if task.UserID != filter.OwnerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Urgency != "" && task.Urgency != filter.Urgency {
			continue
		}
		if filter.Importance != "" && task.Importance != filter.Importance {
			continue
		}
		if filter.Search != "" && !matchesSearch(task, filter.Search) {
			continue
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (s *TaskStorage) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "missing task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tasks {
		if existing.UserID == task.UserID && existing.Title == task.Title {
			return nil, domain.ErrDuplicateTitle
		}
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	clone := *task
	s.tasks[task.ID] = &clone
	s.order = append(s.order, task.ID)
	return task, nil
}

func (s *TaskStorage) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.NewError(domain.ErrCodeInvalidField, "missing task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}

	for _, existing := range s.tasks {
		if existing.ID != task.ID && existing.UserID == task.UserID && existing.Title == task.Title {
			return domain.ErrDuplicateTitle
		}
	}

	task.CreatedAt = stored.CreatedAt
	task.UpdatedAt = time.Now()
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return domain.ErrTaskNotFound
	}

	delete(s.tasks, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStorage) TitleExists(ctx context.Context, ownerID, title, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, task := range s.tasks {
		if task.UserID == ownerID && task.Title == title && task.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *TaskStorage) TitleSubstringExists(ctx context.Context, fragment string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(fragment)
	for _, task := range s.tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) {
			return true, nil
		}
	}
	return false, nil
}

func matchesSearch(task *domain.Task, query string) bool {
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}
