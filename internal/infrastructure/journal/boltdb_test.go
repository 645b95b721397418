package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eisengo/backend/internal/infrastructure/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMarkAndLookup(t *testing.T) {
	store := openStore(t)

	sent, err := store.WasSent("user-1", "2026-08-30 11:00")
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, store.MarkSent("user-1", "2026-08-30 11:00"))

	sent, err = store.WasSent("user-1", "2026-08-30 11:00")
	require.NoError(t, err)
	assert.True(t, sent)

	// other users and other slots stay unmarked
	sent, err = store.WasSent("user-2", "2026-08-30 11:00")
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = store.WasSent("user-1", "2026-08-30 14:30")
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestCleanupDropsOldEntries(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.MarkSent("user-1", "2026-08-30 11:00"))
	require.NoError(t, store.MarkSent("user-2", "2026-08-30 11:00"))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	// a cutoff in the past keeps everything
	require.NoError(t, store.Cleanup(time.Now().Add(-time.Hour)))
	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	// a cutoff in the future sweeps it all
	require.NoError(t, store.Cleanup(time.Now().Add(time.Hour)))
	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := journal.Open(path, "")
	require.NoError(t, err)
	require.NoError(t, store.MarkSent("user-1", "2026-08-30 11:00"))
	require.NoError(t, store.Close())

	store, err = journal.Open(path, "")
	require.NoError(t, err)
	defer store.Close()

	sent, err := store.WasSent("user-1", "2026-08-30 11:00")
	require.NoError(t, err)
	assert.True(t, sent)
}
