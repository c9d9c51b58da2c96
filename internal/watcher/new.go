package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TobiSchelling/ContentForge/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

type Option func(*implWatcher)

// WithSettle sets how long a new file is left alone before it is read, so
// that copies in progress can finish.
func WithSettle(d time.Duration) Option {
	return func(w *implWatcher) { w.settle = d }
}

// WithFilter replaces the default transcript extension check.
func WithFilter(accept func(path string) bool) Option {
	return func(w *implWatcher) { w.accept = accept }
}

// New creates a Watcher on inputDir. Files are handed to handler one at a
// time in arrival order.
func New(inputDir string, handler EventHandler, log logger.Logger, opts ...Option) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}
	w := &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		settle:   defaultSettle,
		accept:   isTranscriptFile,
		seen:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
