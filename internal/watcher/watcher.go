package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TobiSchelling/ContentForge/internal/logger"
	"github.com/TobiSchelling/ContentForge/internal/source"
)

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	settle   time.Duration
	accept   func(path string) bool
	// seen holds paths already handed to the handler in this session
	seen map[string]bool
}

// Start monitors the inbox until ctx is cancelled. Each new transcript is
// handled to completion before the next event is read.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.accept(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-transcript file: %s", event.Name)
				continue
			}
			if w.seen[event.Name] {
				continue
			}
			w.seen[event.Name] = true
			w.logger.Info(ctx, "New transcript detected: %s", event.Name)

			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func isTranscriptFile(path string) bool {
	return source.Supported(path)
}
