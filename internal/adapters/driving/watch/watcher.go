// Package watch drives the fusion pipeline from a directory of results
// bundles: every *.json file created or rewritten in the directory is handed
// to a Handler once it has stopped changing.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docfuse/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one bundle file. A returned error is reported through
// the error callback and never stops the watcher.
type Handler func(ctx context.Context, path string) error

// Watcher watches one directory for results bundles.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler
	onError  func(path string, err error)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the callback for handler failures.
func WithErrorHandler(fn func(path string, err error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher for dir.
func New(dir string, handle Handler, opts ...Option) (*Watcher, error) {
	if handle == nil {
		return nil, errors.New("watch: handler is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", dir)
	}

	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		handle:   handle,
		onError: func(path string, err error) {
			logger.Warn("watch: %s: %v", path, err)
		},
		timers: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Existing returns the bundles already in the directory, sorted by name.
func (w *Watcher) Existing() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isBundleName(e.Name()) {
			paths = append(paths, filepath.Join(w.dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// HandleExisting runs the handler over every bundle already present.
func (w *Watcher) HandleExisting(ctx context.Context) error {
	paths, err := w.Existing()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.run(ctx, path)
	}
	return nil
}

// Run watches the directory until ctx is cancelled. Handlers run one at a
// time in the order files settle.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}
	logger.Info("watching %s for results bundles", w.dir)

	ready := make(chan string, 16)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := bundleEvent(event); ok {
				w.schedule(ctx, path, ready)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case path := <-ready:
			w.run(ctx, path)
		}
	}
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) run(ctx context.Context, path string) {
	logger.Debug("watch: handling %s", path)
	if err := w.handle(ctx, path); err != nil {
		w.onError(path, err)
	}
}

// bundleEvent reports whether the event created or rewrote a bundle file.
func bundleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !isBundleName(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

func isBundleName(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".json")
}
