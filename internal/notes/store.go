package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"stickies/internal/logs"
	"stickies/internal/storage"
)

const (
	DefaultKey        = "Notes"
	DefaultDateLayout = "1/2/2006"

	opHydrate = "hydrate"
)

// ErrNotLoaded is returned for writes after Hydrate failed to read the stored
// entry. Writing then would replace notes that are still on disk.
var ErrNotLoaded = errors.New("stored notes were not loaded")

// PersistError reports that a mutation was applied in memory but could not be
// written to durable storage. The in-memory collection remains authoritative.
type PersistError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistError) Error() string {
	if e.Op == opHydrate {
		return fmt.Sprintf("%s: could not read %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: could not persist %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Store owns the note collection for a session and keeps it in sync with a
// storage.Storage entry.
type Store struct {
	mu     sync.Mutex
	kv     storage.Storage
	key    string
	layout string
	now    func() time.Time
	log    *zap.SugaredLogger

	notes  Collection
	lastID int64
	// readErr is set while the stored entry could not be read; writes are
	// refused until a later Hydrate succeeds.
	readErr error
}

type StoreOption func(*Store)

func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

func WithDateLayout(layout string) StoreOption {
	return func(s *Store) { s.layout = layout }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.SugaredLogger) StoreOption {
	return func(s *Store) { s.log = l }
}

func NewStore(kv storage.Storage, opts ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		layout: DefaultDateLayout,
		now:    time.Now,
		notes:  Collection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logs.Logger
	}
	return s
}

// Hydrate replaces the in-memory collection with the stored entry. A missing
// or malformed entry yields an empty collection and no error. A failing read
// also yields an empty collection, reported as a *PersistError, and leaves the
// store unable to write until a later Hydrate succeeds.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = Collection{}
	s.readErr = nil

	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debugw("no stored notes", "key", s.key)
		return nil
	}
	if err != nil {
		s.log.Errorw("reading notes failed, writes disabled", "key", s.key, "error", err)
		s.readErr = err
		return &PersistError{Op: opHydrate, Key: s.key, Err: err}
	}

	decoded, err := Decode(data)
	if err != nil {
		s.log.Warnw("stored notes are malformed, starting empty", "key", s.key, "error", err)
		return nil
	}

	s.notes = decoded
	for _, n := range decoded {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
	s.log.Debugw("hydrated notes", "key", s.key, "count", len(decoded))
	return nil
}

// AddNote creates a blank note with the given palette color at the top of the
// collection and persists it. The returned note is valid even when a
// *PersistError is returned.
func (s *Store) AddNote(ctx context.Context, color string) (Note, error) {
	hex, err := NormalizeColor(color)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now()
	n := Note{
		ID:   s.nextID(created),
		BG:   hex,
		Date: created.Format(s.layout),
	}
	s.notes = s.notes.Prepend(n)
	s.log.Infow("note added", "id", n.ID, "bg", n.BG)

	return n, s.persist(ctx, "add")
}

// nextID uses the creation time in milliseconds, bumped past the previous id
// so that notes created within the same millisecond stay distinct.
func (s *Store) nextID(t time.Time) int64 {
	id := t.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// UpdateField sets title or description of the note with the given id. It
// reports false, and writes nothing, when the id is unknown.
func (s *Store) UpdateField(ctx context.Context, id int64, field Field, value string) (bool, error) {
	if field != FieldTitle && field != FieldDescription {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.notes.UpdateField(id, field, value)
	if !ok {
		s.log.Debugw("update of unknown note ignored", "id", id)
		return false, nil
	}
	s.notes = updated
	s.log.Debugw("note updated", "id", id, "field", string(field))

	return true, s.persist(ctx, "update")
}

// DeleteSingle removes the note with the given id and persists the result.
func (s *Store) DeleteSingle(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, ok := s.notes.Remove(id)
	if !ok {
		s.log.Debugw("delete of unknown note ignored", "id", id)
		return false, nil
	}
	s.notes = remaining
	s.log.Infow("note deleted", "id", id)

	return true, s.persist(ctx, "delete")
}

// DeleteAll empties the collection and removes the storage entry.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = Collection{}
	s.log.Infow("all notes deleted", "key", s.key)

	if s.readErr != nil {
		return s.notLoaded("delete all")
	}
	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.log.Errorw("removing notes failed", "key", s.key, "error", err)
		return &PersistError{Op: "delete all", Key: s.key, Err: err}
	}
	return nil
}

// Import prepends notes, keeping their relative order and skipping ids that
// already exist. Notes without an id get a fresh one; unknown colors fall back
// to the first palette color. It returns how many notes were added.
func (s *Store) Import(ctx context.Context, incoming []Note) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for i := len(incoming) - 1; i >= 0; i-- {
		n := incoming[i]
		if n.ID != 0 {
			if _, exists := s.notes.Find(n.ID); exists {
				continue
			}
		}
		created := s.now()
		if n.ID == 0 {
			n.ID = s.nextID(created)
		} else if n.ID > s.lastID {
			s.lastID = n.ID
		}
		if !ValidColor(n.BG) {
			n.BG = Palette[0].Hex
		}
		if n.Date == "" {
			n.Date = created.Format(s.layout)
		}
		s.notes = s.notes.Prepend(n)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	s.log.Infow("notes imported", "count", added)
	return added, s.persist(ctx, "import")
}

// Notes returns a copy of the current collection.
func (s *Store) Notes() Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.clone()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Key returns the storage key this store persists under.
func (s *Store) Key() string {
	return s.key
}

// Loaded reports whether the last Hydrate read the stored entry (or found
// none). When false, changes stay in memory only.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr == nil
}

func (s *Store) notLoaded(op string) error {
	s.log.Warnw("write skipped, stored notes were not loaded", "op", op, "key", s.key)
	return &PersistError{Op: op, Key: s.key, Err: fmt.Errorf("%w: %w", ErrNotLoaded, s.readErr)}
}

// persist writes the whole collection. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, op string) error {
	if s.readErr != nil {
		return s.notLoaded(op)
	}
	data, err := Encode(s.notes)
	if err != nil {
		return &PersistError{Op: op, Key: s.key, Err: err}
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.log.Errorw("persisting notes failed", "op", op, "key", s.key, "error", err)
		return &PersistError{Op: op, Key: s.key, Err: err}
	}
	return nil
}
