package watcher

import "context"

// Watcher defines the interface for transcript inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles a new transcript file
type EventHandler func(ctx context.Context, filePath string) error
