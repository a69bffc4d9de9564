package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcherValidation(t *testing.T) {
	_, err := NewWatcher(WatcherOptions{})
	require.Error(t, err)

	loader := New(Options{ProjectDir: t.TempDir(), DisableUserPaths: true})
	_, err = NewWatcher(WatcherOptions{Loader: loader})
	require.Error(t, err)
}

func TestWatcherReloadSwapsSnapshot(t *testing.T) {
	projectDir := t.TempDir()
	skillsDir := filepath.Join(projectDir, ".skillkit", "skills")
	writeSkill(t, skillsDir, "notes", "name: notes\nversion: 1.0.0", "old body")

	loader := New(Options{ProjectDir: projectDir, DisableUserPaths: true})
	snapshot, err := loader.Load()
	require.NoError(t, err)
	engine, err := skillkit.New(skillkit.Options{Snapshot: snapshot})
	require.NoError(t, err)

	watcher, err := NewWatcher(WatcherOptions{Loader: loader, Engine: engine})
	require.NoError(t, err)

	resolved, err := engine.Resolve(context.Background(), "notes", "")
	require.NoError(t, err)
	assert.Equal(t, "old body", resolved.Text)

	writeSkill(t, skillsDir, "notes", "name: notes\nversion: 1.0.0", "new body")
	watcher.reload()

	resolved, err = engine.Resolve(context.Background(), "notes", "")
	require.NoError(t, err)
	assert.Equal(t, "new body", resolved.Text)
}

func TestWatcherReloadKeepsSnapshotOnFailure(t *testing.T) {
	projectDir := t.TempDir()
	skillsDir := filepath.Join(projectDir, ".skillkit", "skills")
	writeSkill(t, skillsDir, "notes", "name: notes\nversion: 1.0.0", "body")

	loader := New(Options{ProjectDir: projectDir, DisableUserPaths: true})
	snapshot, err := loader.Load()
	require.NoError(t, err)
	engine, err := skillkit.New(skillkit.Options{Snapshot: snapshot})
	require.NoError(t, err)

	watcher, err := NewWatcher(WatcherOptions{Loader: loader, Engine: engine})
	require.NoError(t, err)

	// An invalid version passes the parser but fails snapshot
	// validation, so the reload as a whole fails and the previous
	// snapshot stays in place.
	writeSkill(t, skillsDir, "notes", "name: notes\nversion: bogus", "broken")
	watcher.reload()

	resolved, err := engine.Resolve(context.Background(), "notes", "")
	require.NoError(t, err)
	assert.Equal(t, "body", resolved.Text)
}

func TestWatcherStartStopsOnContextCancel(t *testing.T) {
	projectDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, ".skillkit", "skills"), 0o755))

	loader := New(Options{ProjectDir: projectDir, DisableUserPaths: true})
	snapshot, err := loader.Load()
	require.NoError(t, err)
	engine, err := skillkit.New(skillkit.Options{Snapshot: snapshot})
	require.NoError(t, err)

	watcher, err := NewWatcher(WatcherOptions{
		Loader:   loader,
		Engine:   engine,
		Debounce: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Start(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
