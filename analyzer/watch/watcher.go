// Package watch provides a debounced filesystem watcher emitting
// changed Python source paths for continuous re-evaluation.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures the file watcher
type Config struct {
	// Root is the root directory to watch
	Root string

	// DebounceDelay is how long to wait for more changes before processing
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Event represents a Python file change
type Event struct {
	// Path is the file path relative to the watch root
	Path string

	// Operation is the type of change
	Operation Operation

	// Source is the file content (nil for delete operations)
	Source []byte
}

// Operation indicates the type of file operation
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Watcher watches for Python file changes and emits events. Unchanged
// content (same hash after save) is suppressed.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	// State tracking for change detection
	hashMu sync.RWMutex
	hashes map[string]string // path → content hash

	events chan Event
}

// New creates a new file watcher
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Event, 100),
	}, nil
}

// Events returns the channel of watch events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching the root for changes
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"root", w.config.Root,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher. The events channel closes once the
// processing goroutine has drained, never concurrently with a send.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if skipDir(filepath.Base(path)) && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

func skipDir(base string) bool {
	return strings.HasPrefix(base, ".") || base == "__pycache__" ||
		base == "venv" || base == "node_modules"
}

// processEvents handles fsnotify events with debouncing. It owns the
// events channel and closes it on exit.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".py") {
		// But handle directory creation (for new watches)
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	relPath, _ := filepath.Rel(w.config.Root, path)
	w.logger.Debug("File change detected",
		"path", relPath,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory
func (w *Watcher) handleNewDirectory(path string) {
	if skipDir(filepath.Base(path)) {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
	} else {
		w.logger.Debug("Added watch for new directory", "path", path)
	}
}

// flushPending processes accumulated changes
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}

	toProcess := make(map[string]fsnotify.Op, len(w.pending))
	for k, v := range w.pending {
		toProcess[k] = v
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, _ := filepath.Rel(w.config.Root, path)

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.dropHash(relPath)
			w.sendEvent(Event{Path: relPath, Operation: OpDelete})
			continue
		}

		source, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.dropHash(relPath)
				w.sendEvent(Event{Path: relPath, Operation: OpDelete})
			} else {
				w.logger.Warn("Failed to read changed file", "path", relPath, "error", err)
			}
			continue
		}

		sum := sha256.Sum256(source)
		hash := hex.EncodeToString(sum[:])

		w.hashMu.Lock()
		oldHash, hadHash := w.hashes[relPath]
		w.hashes[relPath] = hash
		w.hashMu.Unlock()

		if hadHash && oldHash == hash {
			// Content unchanged, skip
			continue
		}

		operation := OpModify
		if op.Has(fsnotify.Create) || !hadHash {
			operation = OpCreate
		}
		w.sendEvent(Event{Path: relPath, Operation: operation, Source: source})
	}
}

func (w *Watcher) dropHash(relPath string) {
	w.hashMu.Lock()
	delete(w.hashes, relPath)
	w.hashMu.Unlock()
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("Event channel full, dropping event", "path", event.Path)
	}
}
