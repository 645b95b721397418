package attachment_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/internal/infrastructure/blobstore"
	"github.com/eisengo/backend/repository/inmemory"
	"github.com/eisengo/backend/usecase/attachment"
)

type fixture struct {
	uc    *attachment.UseCase
	tasks *inmemory.TaskStorage
	root  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	blobs, err := blobstore.NewStore(root)
	require.NoError(t, err)
	tasks := inmemory.NewTaskStorage()
	return &fixture{
		uc:    attachment.New(tasks, blobs, nil),
		tasks: tasks,
		root:  root,
	}
}

func (f *fixture) createTask(t *testing.T, ownerID, title string) *domain.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), &domain.Task{
		UserID:     ownerID,
		Title:      title,
		Urgency:    domain.UrgencyUrgent,
		Importance: domain.ImportanceImportant,
		TimeFrame:  domain.TimeFrameShortTerm,
	})
	require.NoError(t, err)
	return task
}

func TestUploadRecordsPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	updated, err := f.uc.Upload(ctx, "owner-1", task.ID, domain.AttachmentDocument, "report.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated.DocumentPath)
	assert.Equal(t, task.ID+"/report.pdf", *updated.DocumentPath)
	assert.Nil(t, updated.ImagePath)
	assert.Nil(t, updated.VoiceNotePath)

	onDisk, err := os.ReadFile(filepath.Join(f.root, task.ID, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), onDisk)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	_, err := f.uc.Upload(ctx, "owner-1", task.ID, "spreadsheet", "a.xlsx", []byte("x"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))

	_, err = f.uc.Upload(ctx, "owner-1", task.ID, domain.AttachmentImage, "a.png", nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))

	_, err = f.uc.Upload(ctx, "owner-1", "missing-task", domain.AttachmentImage, "a.png", []byte("x"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// another owner's task is indistinguishable from a missing one
	_, err = f.uc.Upload(ctx, "owner-2", task.ID, domain.AttachmentImage, "a.png", []byte("x"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUploadReplacesKindAndRemovesSupersededFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	_, err := f.uc.Upload(ctx, "owner-1", task.ID, domain.AttachmentImage, "old.png", []byte("old"))
	require.NoError(t, err)

	updated, err := f.uc.Upload(ctx, "owner-1", task.ID, domain.AttachmentImage, "new.png", []byte("new"))
	require.NoError(t, err)
	require.NotNil(t, updated.ImagePath)
	assert.Equal(t, task.ID+"/new.png", *updated.ImagePath)

	_, err = os.Stat(filepath.Join(f.root, task.ID, "old.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	_, err := f.uc.Upload(ctx, "owner-1", task.ID, domain.AttachmentVoice, "memo.ogg", []byte("audio"))
	require.NoError(t, err)

	data, name, err := f.uc.Download(ctx, "owner-1", task.ID, "memo.ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)
	assert.Equal(t, "memo.ogg", name)
}

func TestDownloadMissingFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	_, _, err := f.uc.Download(ctx, "owner-1", task.ID, "nothing.pdf")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, _, err = f.uc.Download(ctx, "owner-1", "missing-task", "nothing.pdf")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestDownloadForeignFileIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// two tasks under the same owner; a document on one, an image on the other
	docTask := f.createTask(t, "owner-1", "Write report")
	imgTask := f.createTask(t, "owner-1", "Design slides")

	_, err := f.uc.Upload(ctx, "owner-1", docTask.ID, domain.AttachmentDocument, "report.pdf", []byte("pdf"))
	require.NoError(t, err)
	_, err = f.uc.Upload(ctx, "owner-1", imgTask.ID, domain.AttachmentImage, "mock.png", []byte("png"))
	require.NoError(t, err)

	// reaching the other task's image through the document task must be forbidden,
	// not missing: the file exists but is not recorded on this task
	_, _, err = f.uc.Download(ctx, "owner-1", docTask.ID, "../"+imgTask.ID+"/mock.png")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestDownloadUnrecordedFileIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	// file present in the namespace but never recorded on the task
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, task.ID), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, task.ID, "stray.txt"), []byte("stray"), 0o644))

	_, _, err := f.uc.Download(ctx, "owner-1", task.ID, "stray.txt")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestDownloadEscapingRootIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.createTask(t, "owner-1", "Write report")

	_, _, err := f.uc.Download(ctx, "owner-1", task.ID, "../../etc/passwd")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalidField))
}
