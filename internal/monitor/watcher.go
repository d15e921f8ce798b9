package monitor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultChangeLogSize bounds the in-memory change log
const DefaultChangeLogSize = 1000

// ChangeLog is a bounded, in-memory record of filesystem events observed
// by the watcher. Oldest entries are dropped once the cap is reached.
type ChangeLog struct {
	mu      sync.Mutex
	max     int
	entries []string
}

// NewChangeLog creates a change log holding at most max entries
func NewChangeLog(max int) *ChangeLog {
	if max <= 0 {
		max = DefaultChangeLogSize
	}
	return &ChangeLog{max: max}
}

// Append records an event, evicting the oldest entry when full
func (l *ChangeLog) Append(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, event)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Recent returns the last n events, newest last
func (l *ChangeLog) Recent(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]string, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Watcher feeds fsnotify events for registered directories into the
// registry and the change log.
type Watcher struct {
	fs       *fsnotify.Watcher
	registry *Registry
	changes  *ChangeLog
	logger   *zap.Logger
}

// NewWatcher creates a watcher bound to the given registry and change log
func NewWatcher(registry *Registry, changes *ChangeLog, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:       fsw,
		registry: registry,
		changes:  changes,
		logger:   logger,
	}, nil
}

// Watch starts watching root and all of its subdirectories. fsnotify does
// not recurse, so each directory is added individually.
func (w *Watcher) Watch(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(path); err != nil {
				return err
			}
		}
		return nil
	})
}

// Unwatch stops watching root. Subdirectory watches are cleaned up lazily
// by fsnotify when the kernel handles are released.
func (w *Watcher) Unwatch(root string) {
	if err := w.fs.Remove(root); err != nil {
		w.logger.Debug("failed to remove watch", zap.String("path", root), zap.Error(err))
	}
}

// Run consumes filesystem events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		// New subdirectory under a watched root needs its own watch
		if event.Op&fsnotify.Create != 0 {
			if err := w.fs.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
		}
		return
	}

	changed, err := w.registry.Refresh(event.Name)
	if err != nil {
		if !errors.Is(err, ErrNotRegistered) {
			w.logger.Debug("failed to rehash file", zap.String("path", event.Name), zap.Error(err))
		}
		return
	}
	if changed {
		w.changes.Append("MODIFIED: " + event.Name)
		w.logger.Info("file modified", zap.String("path", event.Name))
	}
}
