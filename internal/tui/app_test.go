package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"stickies/internal/notes"
	"stickies/internal/storage"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(AppModel)
}

// submit sends a key that closes the editor or the confirmation dialog and
// feeds the resulting message back, as the runtime would.
func submit(t *testing.T, m AppModel, msg tea.KeyMsg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		t.Fatalf("expected a command for %q", msg.String())
	}
	return send(t, m, cmd())
}

func newTestModel(t *testing.T) (AppModel, *notes.Store, *storage.MemoryStorage) {
	t.Helper()
	kv := storage.NewMemoryStorage()
	store := notes.NewStore(kv)
	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	m := NewAppModel(context.Background(), store, "light", nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store, kv
}

func typeText(t *testing.T, m AppModel, s string) AppModel {
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPaletteKeysAddNotesNewestFirst(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = send(t, m, key("1"))
	m = send(t, m, key("3"))

	got := store.Notes()
	if len(got) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(got))
	}
	if got[0].BG != notes.Palette[2].Hex || got[1].BG != notes.Palette[0].Hex {
		t.Errorf("unexpected colors: %q, %q", got[0].BG, got[1].BG)
	}
	if m.cursor != 0 {
		t.Errorf("expected selection at top after add, got %d", m.cursor)
	}
}

func TestEditTitleAndDescription(t *testing.T) {
	m, store, _ := newTestModel(t)
	m = send(t, m, key("2"))

	m = send(t, m, key("enter"))
	if m.mode != modeEdit {
		t.Fatalf("expected edit mode, got %v", m.mode)
	}
	m = typeText(t, m, "Groceries")
	m = submit(t, m, key("enter"))

	if m.mode != modeBoard {
		t.Fatalf("expected board mode after save, got %v", m.mode)
	}
	if got := store.Notes()[0].Title; got != "Groceries" {
		t.Errorf("expected title Groceries, got %q", got)
	}

	m = send(t, m, key("d"))
	m = typeText(t, m, "milk")
	m = submit(t, m, key("ctrl+s"))
	if got := store.Notes()[0].Description; got != "milk" {
		t.Errorf("expected description milk, got %q", got)
	}
}

func TestEditCancelLeavesNoteUnchanged(t *testing.T) {
	m, store, _ := newTestModel(t)
	m = send(t, m, key("1"))

	m = send(t, m, key("e"))
	m = typeText(t, m, "draft")
	m = submit(t, m, key("esc"))

	if got := store.Notes()[0].Title; got != "" {
		t.Errorf("expected title unchanged, got %q", got)
	}
}

func TestDeleteSelected(t *testing.T) {
	m, store, _ := newTestModel(t)
	m = send(t, m, key("1"))
	m = send(t, m, key("2"))
	keep := store.Notes()[1].ID

	m = send(t, m, key("x"))

	got := store.Notes()
	if len(got) != 1 || got[0].ID != keep {
		t.Errorf("expected only note %d to remain, got %+v", keep, got)
	}
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	m, store, kv := newTestModel(t)
	m = send(t, m, key("1"))
	m = send(t, m, key("4"))

	m = send(t, m, key("X"))
	if m.mode != modeConfirmClear {
		t.Fatalf("expected confirmation, got mode %v", m.mode)
	}
	m = submit(t, m, key("n"))
	if store.Len() != 2 {
		t.Fatalf("cancel must keep notes, got %d", store.Len())
	}

	m = send(t, m, key("X"))
	m = submit(t, m, key("y"))
	if store.Len() != 0 {
		t.Errorf("expected empty board, got %d notes", store.Len())
	}
	if kv.Has(store.Key()) {
		t.Error("expected storage entry to be removed")
	}
	if !strings.Contains(m.View(), "You don't have any notes.") {
		t.Error("expected empty-board message")
	}
}

func TestThemeToggleIsPresentationOnly(t *testing.T) {
	m, store, kv := newTestModel(t)
	m = send(t, m, key("T"))
	if m.theme.Name != "dark" {
		t.Errorf("expected dark theme, got %q", m.theme.Name)
	}
	if store.Len() != 0 || kv.Has(store.Key()) {
		t.Error("theme toggle must not touch the store")
	}
	m = send(t, m, key("T"))
	if m.theme.Name != "light" {
		t.Errorf("expected light theme, got %q", m.theme.Name)
	}
}

func TestSearchFiltersVisibleNotes(t *testing.T) {
	m, store, _ := newTestModel(t)
	ctx := context.Background()
	a, _ := store.AddNote(ctx, "FBBF24")
	b, _ := store.AddNote(ctx, "FB923C")
	store.UpdateField(ctx, a.ID, notes.FieldTitle, "groceries")
	store.UpdateField(ctx, b.ID, notes.FieldTitle, "standup")
	m = send(t, m, key("r"))

	m = send(t, m, key("/"))
	m = typeText(t, m, "groc")
	if len(m.visible) != 1 || m.visible[0].ID != a.ID {
		t.Fatalf("expected only groceries visible, got %+v", m.visible)
	}

	m = send(t, m, key("enter"))
	m = send(t, m, key("esc"))
	if len(m.visible) != 2 {
		t.Errorf("expected filter cleared, got %d visible", len(m.visible))
	}
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (failingStorage) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestPersistFailureShowsWarning(t *testing.T) {
	store := notes.NewStore(failingStorage{storage.NewMemoryStorage()})
	m := NewAppModel(context.Background(), store, "dark", nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = send(t, m, key("5"))

	if store.Len() != 1 {
		t.Fatalf("note should exist in memory, got %d", store.Len())
	}
	if !m.statusErr || !strings.Contains(m.status, "quota exceeded") {
		t.Errorf("expected persistence warning, got %q", m.status)
	}
}

func TestExternalChangeReloads(t *testing.T) {
	m, store, kv := newTestModel(t)

	data, _ := notes.Encode(notes.Collection{{ID: 1, Title: "from cli", BG: "34D399", Date: "1/1/2026"}})
	kv.Set(context.Background(), store.Key(), data)

	m = send(t, m, externalChangeMsg{Key: store.Key()})
	if len(m.visible) != 1 || m.visible[0].Title != "from cli" {
		t.Errorf("expected reloaded note, got %+v", m.visible)
	}
}

func TestGridNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < 7; i++ {
		m = send(t, m, key("1"))
	}
	cols := columns(m.width)

	m = send(t, m, key("l"))
	if m.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.cursor)
	}
	m = send(t, m, key("j"))
	if m.cursor != 1+cols {
		t.Errorf("expected cursor %d, got %d", 1+cols, m.cursor)
	}
	m = send(t, m, key("G"))
	if m.cursor != 6 {
		t.Errorf("expected last note, got %d", m.cursor)
	}
	m = send(t, m, key("g"))
	if m.cursor != 0 {
		t.Errorf("expected first note, got %d", m.cursor)
	}
}

type unreadableStorage struct {
	*storage.MemoryStorage
}

func (unreadableStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("database is locked")
}

func TestUnreadableNotesWarnAndDoNotSave(t *testing.T) {
	kv := unreadableStorage{storage.NewMemoryStorage()}
	store := notes.NewStore(kv)
	if err := store.Hydrate(context.Background()); err == nil {
		t.Fatal("expected hydrate to fail")
	}

	m := NewAppModel(context.Background(), store, "light", nil)
	if !m.statusErr || !strings.Contains(m.status, "could not be read") {
		t.Errorf("expected startup warning, got %q", m.status)
	}
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = send(t, m, key("1"))
	if store.Len() != 1 {
		t.Fatalf("note should exist in memory, got %d", store.Len())
	}
	if kv.Has(store.Key()) {
		t.Error("nothing may be written while stored notes are unread")
	}
	if !strings.Contains(m.status, "r to retry") {
		t.Errorf("expected retry hint, got %q", m.status)
	}
}
