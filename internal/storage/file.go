package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"stickies/internal/logs"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = ".stickies-tmp-"

	fileExt       = ".json"
	watchDebounce = 100 * time.Millisecond
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type snapshot struct {
	data   []byte
	exists bool
}

// FileStorage keeps one file per key under a directory.
type FileStorage struct {
	dir string

	mu   sync.Mutex
	last map[string]snapshot // what this process last read or wrote, per key
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}
	return &FileStorage{
		dir:  dir,
		last: make(map[string]snapshot),
	}, nil
}

// Path returns the file that backs key.
func (s *FileStorage) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		s.last[key] = snapshot{}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", key, err)
	}
	s.last[key] = snapshot{data: data, exists: true}
	return data, nil
}

func (s *FileStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.Path(key), value, 0644); err != nil {
		return err
	}
	s.last[key] = snapshot{data: append([]byte(nil), value...), exists: true}
	return nil
}

func (s *FileStorage) Remove(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing %s: %w", key, err)
	}
	s.last[key] = snapshot{}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}

// Watch reports keys whose files were changed by someone other than this
// FileStorage. Bursts of events are debounced.
func (s *FileStorage) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("error watching %s: %w", s.dir, err)
	}

	out := make(chan string)
	go s.watchLoop(ctx, w, out)
	return out, nil
}

func (s *FileStorage) watchLoop(ctx context.Context, w *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			key, ok := keyFromPath(ev.Name)
			if !ok {
				continue
			}
			pending[key] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logs.Logger.Warnw("file watcher error", "dir", s.dir, "error", err)

		case <-fire:
			fire = nil
			for key := range pending {
				delete(pending, key)
				if !s.changedExternally(key) {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// changedExternally compares the file on disk with the last state this
// process observed and records the new state.
func (s *FileStorage) changedExternally(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := snapshot{}
	data, err := os.ReadFile(s.Path(key))
	if err == nil {
		cur = snapshot{data: data, exists: true}
	} else if !errors.Is(err, os.ErrNotExist) {
		logs.Logger.Warnw("error reading watched file", "key", key, "error", err)
		return false
	}

	prev := s.last[key]
	if prev.exists == cur.exists && bytes.Equal(prev.data, cur.data) {
		return false
	}
	s.last[key] = cur
	return true
}

func keyFromPath(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, fileExt)
	return key, validKey.MatchString(key)
}

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the same directory and renames
// it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
