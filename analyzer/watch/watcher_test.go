package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(Config{Root: root, DebounceDelay: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.watcher.Close() })
	return w
}

func drainOne(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case event := <-w.events:
		return event
	default:
		t.Fatal("expected an event")
		return Event{}
	}
}

func TestFlushPendingEmitsCreateThenModify(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "util.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	w := newTestWatcher(t, root)
	ctx := context.Background()

	w.pending[path] = fsnotify.Create
	w.flushPending(ctx)

	event := drainOne(t, w)
	assert.Equal(t, "util.py", event.Path)
	assert.Equal(t, OpCreate, event.Operation)
	assert.Equal(t, []byte("x = 1\n"), event.Source)

	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
	w.pending[path] = fsnotify.Write
	w.flushPending(ctx)

	event = drainOne(t, w)
	assert.Equal(t, OpModify, event.Operation)
	assert.Equal(t, []byte("x = 2\n"), event.Source)
}

func TestFlushPendingSuppressesUnchangedContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "util.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	w := newTestWatcher(t, root)
	ctx := context.Background()

	w.pending[path] = fsnotify.Create
	w.flushPending(ctx)
	drainOne(t, w)

	// Same content saved again: no event.
	w.pending[path] = fsnotify.Write
	w.flushPending(ctx)

	select {
	case event := <-w.events:
		t.Fatalf("unexpected event for unchanged content: %+v", event)
	default:
	}
}

func TestFlushPendingEmitsDeleteAndDropsHash(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	w := newTestWatcher(t, root)
	ctx := context.Background()

	w.pending[path] = fsnotify.Create
	w.flushPending(ctx)
	drainOne(t, w)

	require.NoError(t, os.Remove(path))
	w.pending[path] = fsnotify.Remove
	w.flushPending(ctx)

	event := drainOne(t, w)
	assert.Equal(t, OpDelete, event.Operation)
	assert.Nil(t, event.Source)

	// Recreating the file after a delete is a create again, not a modify.
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	w.pending[path] = fsnotify.Create
	w.flushPending(ctx)

	event = drainOne(t, w)
	assert.Equal(t, OpCreate, event.Operation)
}

func TestStopClosesEventChannelAfterDrain(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	// The processing goroutine owns the channel; it must close after
	// Stop, never racing a pending send.
	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Stop")
	}
}

func TestSkipDir(t *testing.T) {
	assert.True(t, skipDir(".git"))
	assert.True(t, skipDir("__pycache__"))
	assert.True(t, skipDir("venv"))
	assert.True(t, skipDir("node_modules"))
	assert.False(t, skipDir("src"))
}
