package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"stickies/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Storage is the durable key-value boundary the note store persists through.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Watcher is implemented by backends that can report changes made by other
// processes. The channel carries the changed key and is closed when ctx ends.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Open builds the backend selected in cfg.
func Open(cfg *config.Config) (Storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStorage(), nil
	case config.BackendFile:
		return NewFileStorage(cfg.DataDir)
	case config.BackendSQLite:
		return NewSQLiteStorage(filepath.Join(cfg.DataDir, "stickies.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
