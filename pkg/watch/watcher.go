// Package watch regenerates reports when the source file changes.
// fsnotify events are debounced so editors that write in bursts trigger
// one rebuild, not several.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last write event before
// OnChange fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors one source file and invokes OnChange after changes
// settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	mu           sync.Mutex
	lastModified time.Time
	lastSize     int64
	rebuilding   bool

	// OnChange runs after a debounced change. Errors go to OnError.
	OnChange func(path string) error
	// OnError receives watch and rebuild errors.
	OnError func(err error)
}

// New creates a watcher for path. Debounce of zero means DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the containing directory; editors often replace the file,
	// which drops a watch registered on the file itself.
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:      fsWatcher,
		path:         absPath,
		debounce:     debounce,
		lastModified: stat.ModTime(),
		lastSize:     stat.Size(),
	}, nil
}

// Run blocks until the context is canceled, dispatching debounced change
// callbacks.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || abs != w.path {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.handleChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleChange() {
	w.mu.Lock()
	if w.rebuilding {
		w.mu.Unlock()
		return
	}
	w.rebuilding = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.rebuilding = false
		w.mu.Unlock()
	}()

	stat, err := os.Stat(w.path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(err)
		}
		return
	}

	w.mu.Lock()
	unchanged := stat.ModTime().Equal(w.lastModified) && stat.Size() == w.lastSize
	w.lastModified = stat.ModTime()
	w.lastSize = stat.Size()
	w.mu.Unlock()

	if unchanged {
		return
	}

	if w.OnChange != nil {
		if err := w.OnChange(w.path); err != nil && w.OnError != nil {
			w.OnError(err)
		}
	}
}
