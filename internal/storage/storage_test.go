package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickies/internal/config"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	fileStore, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStorageContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "Notes")
			assert.ErrorIs(t, err, ErrNotFound, "absent key")

			require.NoError(t, s.Set(ctx, "Notes", []byte(`[{"id":1}]`)))
			got, err := s.Get(ctx, "Notes")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":1}]`, string(got))

			require.NoError(t, s.Set(ctx, "Notes", []byte(`[]`)))
			got, err = s.Get(ctx, "Notes")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got), "overwrite")

			require.NoError(t, s.Remove(ctx, "Notes"))
			_, err = s.Get(ctx, "Notes")
			assert.ErrorIs(t, err, ErrNotFound, "removed key")

			assert.NoError(t, s.Remove(ctx, "Notes"), "removing an absent key")
		})
	}
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape", "a/b", "", ".."} {
		assert.Error(t, s.Set(context.Background(), key, []byte("x")), "key %q", key)
	}
}

func TestFileStorage_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "Notes", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Notes.json", entries[0].Name())
}

func TestFileStorage_WatchReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	// Our own write must not be reported.
	require.NoError(t, s.Set(ctx, "Notes", []byte("[]")))

	// Another process writes the same key.
	other, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, "Notes", []byte(`[{"id":7}]`)))

	select {
	case key := <-events:
		assert.Equal(t, "Notes", key)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case key := <-events:
		t.Fatalf("unexpected second notification for %q", key)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	for range events {
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]any{
		config.BackendMemory: &MemoryStorage{},
		config.BackendFile:   &FileStorage{},
		config.BackendSQLite: &SQLiteStorage{},
	}
	for backend, want := range cases {
		s, err := Open(&config.Config{Backend: backend, DataDir: dir})
		require.NoError(t, err, backend)
		assert.IsType(t, want, s, backend)
		s.Close()
	}

	_, err := Open(&config.Config{Backend: "redis", DataDir: dir})
	assert.Error(t, err)
}

func TestSQLiteStorage_WaitsForLockedDatabase(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "stickies.db"))
	require.NoError(t, err)
	defer s.Close()

	var ms int64
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&ms))
	assert.Equal(t, busyTimeout.Milliseconds(), ms)
}
