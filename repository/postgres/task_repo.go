package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/repository"
)

const taskColumns = `id, user_id, title, description, urgency, importance, time_frame,
	completed, deadline, image_path, document_path, voice_note_path, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2::boolean IS NULL OR completed = $2)
	  AND ($3 = '' OR urgency = $3)
	  AND ($4 = '' OR importance = $4)
	  AND ($5 = '' OR title ILIKE '%' || $5 || '%' OR description ILIKE '%' || $5 || '%')
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query,
		filter.OwnerID,
		filter.Completed,
		string(filter.Urgency),
		string(filter.Importance),
		filter.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidField, "missing task")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, urgency, importance, time_frame, completed, deadline)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Urgency),
		string(task.Importance),
		string(task.TimeFrame),
		task.Completed,
		task.Deadline,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, mapUniqueViolation(err)
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.NewError(domain.ErrCodeInvalidField, "missing task")
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		urgency = $5,
		importance = $6,
		time_frame = $7,
		completed = $8,
		deadline = $9,
		image_path = $10,
		document_path = $11,
		voice_note_path = $12,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Urgency),
		string(task.Importance),
		string(task.TimeFrame),
		task.Completed,
		task.Deadline,
		task.ImagePath,
		task.DocumentPath,
		task.VoiceNotePath,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) TitleExists(ctx context.Context, ownerID, title, excludeID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM tasks
		WHERE user_id = $1 AND title = $2 AND ($3 = '' OR id <> $3)
	)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, ownerID, title, excludeID).Scan(&exists)
	return exists, err
}

func (r *taskRepository) TitleSubstringExists(ctx context.Context, fragment string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE title ILIKE '%' || $1 || '%')`
	var exists bool
	err := r.pool.QueryRow(ctx, query, fragment).Scan(&exists)
	return exists, err
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var urgency, importance, timeFrame string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&urgency,
		&importance,
		&timeFrame,
		&task.Completed,
		&task.Deadline,
		&task.ImagePath,
		&task.DocumentPath,
		&task.VoiceNotePath,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Urgency = domain.Urgency(urgency)
	task.Importance = domain.Importance(importance)
	task.TimeFrame = domain.TimeFrame(timeFrame)
	return &task, nil
}
