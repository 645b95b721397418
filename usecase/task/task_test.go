package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/internal/config"
	"github.com/eisengo/backend/repository"
	"github.com/eisengo/backend/repository/inmemory"
	taskUC "github.com/eisengo/backend/usecase/task"
)

type fakeAttachmentStore struct {
	removed []string
}

func (f *fakeAttachmentStore) RemoveNamespace(taskID string) error {
	f.removed = append(f.removed, taskID)
	return nil
}

func newUseCase(policy config.TitlePolicy) (*taskUC.UseCase, *fakeAttachmentStore) {
	blobs := &fakeAttachmentStore{}
	return taskUC.New(inmemory.NewTaskStorage(), blobs, policy, nil), blobs
}

func newTask(title string) *domain.Task {
	return &domain.Task{
		Title:       title,
		Description: "Q3",
		Urgency:     domain.UrgencyUrgent,
		Importance:  domain.ImportanceImportant,
		TimeFrame:   domain.TimeFrameShortTerm,
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	deadline := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	input := newTask("Write report")
	input.Deadline = &deadline

	created, err := uc.Create(ctx, "owner-1", input)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)

	got, err := uc.Get(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Q3", got.Description)
	assert.Equal(t, domain.UrgencyUrgent, got.Urgency)
	assert.Equal(t, domain.ImportanceImportant, got.Importance)
	assert.Equal(t, domain.TimeFrameShortTerm, got.TimeFrame)
	assert.False(t, got.Completed)
	require.NotNil(t, got.Deadline)
	assert.True(t, deadline.Equal(*got.Deadline))
}

func TestCreateValidatesEnums(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	tests := []struct {
		name   string
		mutate func(*domain.Task)
	}{
		{"bad urgency", func(task *domain.Task) { task.Urgency = "soonish" }},
		{"bad importance", func(task *domain.Task) { task.Importance = "meh" }},
		{"bad time frame", func(task *domain.Task) { task.TimeFrame = "whenever" }},
		{"empty title", func(task *domain.Task) { task.Title = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := newTask("Valid title")
			tt.mutate(input)
			_, err := uc.Create(ctx, "owner-1", input)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))
		})
	}
}

func TestTitlePolicyPerUserExact(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	_, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, "owner-1", newTask("Write report"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicateTitle))

	// a different owner may reuse the title
	_, err = uc.Create(ctx, "owner-2", newTask("Write report"))
	assert.NoError(t, err)

	// and a substring of an existing title is fine under this policy
	_, err = uc.Create(ctx, "owner-1", newTask("report"))
	assert.NoError(t, err)
}

func TestTitlePolicyGlobalSubstring(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitleGlobalSubstring)

	_, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)

	// "report" is contained in another user's stored title
	_, err = uc.Create(ctx, "owner-2", newTask("report"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicateTitle))

	_, err = uc.Create(ctx, "owner-2", newTask("Unrelated"))
	assert.NoError(t, err)
}

func TestListNeverCrossesOwners(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	mine, err := uc.Create(ctx, "owner-1", newTask("Mine"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, "owner-2", newTask("Theirs"))
	require.NoError(t, err)

	completed := false
	filters := []repository.TaskFilter{
		{},
		{Completed: &completed},
		{Urgency: domain.UrgencyUrgent},
		{Importance: domain.ImportanceImportant},
		{Search: "e"},
	}
	for _, filter := range filters {
		tasks, err := uc.List(ctx, "owner-1", filter)
		require.NoError(t, err)
		for _, task := range tasks {
			assert.Equal(t, "owner-1", task.UserID)
		}
	}

	// direct access to the other owner's task is indistinguishable from absence
	_, err = uc.Get(ctx, "owner-2", mine.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	_, err = uc.Update(ctx, "owner-2", mine.ID, domain.TaskUpdate{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	err = uc.Delete(ctx, "owner-2", mine.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	_, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)

	chores := newTask("Chores")
	chores.Description = "laundry and dishes"
	chores.Urgency = domain.UrgencyNotUrgent
	chores.Importance = domain.ImportanceNotImportant
	_, err = uc.Create(ctx, "owner-1", chores)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter repository.TaskFilter
		want   []string
	}{
		{"no filter", repository.TaskFilter{}, []string{"Write report", "Chores"}},
		{"urgency", repository.TaskFilter{Urgency: domain.UrgencyNotUrgent}, []string{"Chores"}},
		{"importance", repository.TaskFilter{Importance: domain.ImportanceImportant}, []string{"Write report"}},
		{"search on title", repository.TaskFilter{Search: "REPORT"}, []string{"Write report"}},
		{"search on description", repository.TaskFilter{Search: "laundry"}, []string{"Chores"}},
		{"search misses", repository.TaskFilter{Search: "nothing"}, nil},
		{
			"filters AND together",
			repository.TaskFilter{Urgency: domain.UrgencyUrgent, Search: "laundry"},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := uc.List(ctx, "owner-1", tt.filter)
			require.NoError(t, err)
			var titles []string
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	t.Run("invalid filter literal", func(t *testing.T) {
		_, err := uc.List(ctx, "owner-1", repository.TaskFilter{Urgency: "soonish"})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))
	})
}

func TestUpdatePartialFields(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	created, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)

	description := "updated description"
	updated, err := uc.Update(ctx, "owner-1", created.ID, domain.TaskUpdate{Description: &description})
	require.NoError(t, err)

	// only the supplied field changed
	assert.Equal(t, "updated description", updated.Description)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Urgency, updated.Urgency)
	assert.Equal(t, created.Importance, updated.Importance)
	assert.Equal(t, created.TimeFrame, updated.TimeFrame)
	assert.Equal(t, created.Completed, updated.Completed)
}

func TestUpdateEmptyMaskIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	created, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)
	before, err := uc.Get(ctx, "owner-1", created.ID)
	require.NoError(t, err)

	_, err = uc.Update(ctx, "owner-1", created.ID, domain.TaskUpdate{})
	require.NoError(t, err)

	after, err := uc.Get(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateRejectsDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	_, err := uc.Create(ctx, "owner-1", newTask("First"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, "owner-1", newTask("Second"))
	require.NoError(t, err)

	title := "First"
	_, err = uc.Update(ctx, "owner-1", second.ID, domain.TaskUpdate{Title: &title})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicateTitle))

	// keeping its own title is not a collision
	same := "Second"
	_, err = uc.Update(ctx, "owner-1", second.ID, domain.TaskUpdate{Title: &same})
	assert.NoError(t, err)
}

func TestDeleteCascadesAttachments(t *testing.T) {
	ctx := context.Background()
	uc, blobs := newUseCase(config.TitlePerUserExact)

	created, err := uc.Create(ctx, "owner-1", newTask("Write report"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "owner-1", created.ID))
	assert.Equal(t, []string{created.ID}, blobs.removed)

	_, err = uc.Get(ctx, "owner-1", created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	err = uc.Delete(ctx, "owner-1", created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestCompletionScenario(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(config.TitlePerUserExact)

	created, err := uc.Create(ctx, "alice-id", newTask("Write report"))
	require.NoError(t, err)

	incomplete := false
	pending, err := uc.List(ctx, "alice-id", repository.TaskFilter{Completed: &incomplete})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	done := true
	_, err = uc.Update(ctx, "alice-id", created.ID, domain.TaskUpdate{Completed: &done})
	require.NoError(t, err)

	pending, err = uc.List(ctx, "alice-id", repository.TaskFilter{Completed: &incomplete})
	require.NoError(t, err)
	assert.Empty(t, pending)

	completed, err := uc.List(ctx, "alice-id", repository.TaskFilter{Completed: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, created.ID, completed[0].ID)

	// restore is unconditionally permitted
	_, err = uc.Update(ctx, "alice-id", created.ID, domain.TaskUpdate{Completed: &incomplete})
	assert.NoError(t, err)
}
