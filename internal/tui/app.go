package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stickies/internal/logs"
	"stickies/internal/notes"
	"stickies/internal/tui/theme"
)

type mode int

const (
	modeBoard mode = iota
	modeEdit
	modeSearch
	modeConfirmClear
)

// toolbar (2) + status bar (2)
const chromeHeight = 4

// AppModel is the root model: a board of sticky notes over a notes.Store.
type AppModel struct {
	ctx     context.Context
	store   *notes.Store
	changes <-chan string

	theme   theme.Theme
	mode    mode
	visible notes.Collection
	cursor  int
	offset  int // first grid row on screen
	query   string

	search  textinput.Model
	editor  *EditorModel
	confirm *ConfirmationModal

	status    string
	statusErr bool
	statusSeq int

	showHelp bool
	width    int
	height   int
	ready    bool
}

// NewAppModel creates the root application model. changes may be nil when the
// storage backend cannot be watched.
func NewAppModel(ctx context.Context, store *notes.Store, themeName string, changes <-chan string) AppModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "filter notes"

	m := AppModel{
		ctx:     ctx,
		store:   store,
		changes: changes,
		theme:   theme.ByName(themeName),
		search:  search,
	}
	if !store.Loaded() {
		m.status = "Saved notes could not be read, changes stay in this window (r to retry)"
		m.statusErr = true
	}
	m.refresh()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.editor != nil {
			m.editor.SetWidth(m.width - 4)
		}
		m.ensureVisible()
		return m, nil

	case externalChangeMsg:
		if msg.Key != m.store.Key() {
			return m, waitForChange(m.changes)
		}
		logs.Logger.Infow("notes changed on disk, reloading", "key", msg.Key)
		err := m.store.Hydrate(m.ctx)
		m.refresh()
		return m, tea.Batch(m.report(err, "Reloaded notes changed outside this window"), waitForChange(m.changes))

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case EditorResultMsg:
		m.editor = nil
		m.mode = modeBoard
		if msg.Cancelled {
			return m, nil
		}
		_, err := m.store.UpdateField(m.ctx, msg.ID, msg.Field, msg.Value)
		m.refresh()
		return m, m.report(err, "")

	case ConfirmationResultMsg:
		m.confirm = nil
		m.mode = modeBoard
		if !msg.Confirmed {
			return m, nil
		}
		err := m.store.DeleteAll(m.ctx)
		m.query = ""
		m.cursor = 0
		m.refresh()
		return m, m.report(err, "All notes deleted")

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.mode {
		case modeEdit:
			return m, m.editor.Update(msg)
		case modeConfirmClear:
			return m, m.confirm.Update(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
		return m.handleBoardKeys(msg)
	}

	// Cursor blink and other component ticks
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		cmd = m.editor.Update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if idx := paletteIndex(key); idx >= 0 {
		return m.addNote(notes.Palette[idx].Hex)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
	case "up", "k":
		m.move(-columns(m.width))
	case "down", "j":
		m.move(columns(m.width))
	case "g", "home":
		m.cursor = 0
		m.ensureVisible()
	case "G", "end":
		m.cursor = len(m.visible) - 1
		m.ensureVisible()

	case "enter", "e":
		return m.openEditor(notes.FieldTitle)
	case "d":
		return m.openEditor(notes.FieldDescription)

	case "x", "delete":
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		_, err := m.store.DeleteSingle(m.ctx, n.ID)
		m.refresh()
		return m, m.report(err, "Note deleted")

	case "X":
		count := m.store.Len()
		if count == 0 {
			return m, nil
		}
		m.confirm = NewConfirmationModal(
			"Delete all notes?",
			fmt.Sprintf("%d notes will be removed. This cannot be undone.", count),
			44,
		)
		m.mode = modeConfirmClear

	case "T":
		m.theme = m.theme.Toggle()

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case "esc":
		if m.query != "" {
			m.query = ""
			m.refresh()
		}

	case "r":
		err := m.store.Hydrate(m.ctx)
		m.refresh()
		return m, m.report(err, "Reloaded")
	}
	return m, nil
}

func (m AppModel) addNote(color string) (tea.Model, tea.Cmd) {
	n, err := m.store.AddNote(m.ctx, color)
	var perr *notes.PersistError
	if err != nil && !errors.As(err, &perr) {
		return m, m.report(err, "")
	}

	// New notes are blank, so a filter would hide them.
	m.query = ""
	m.refresh()
	m.cursor = 0
	m.offset = 0
	return m, m.report(err, fmt.Sprintf("Added %s note", notes.ColorName(n.BG)))
}

func (m AppModel) openEditor(field notes.Field) (tea.Model, tea.Cmd) {
	n, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.editor = NewEditor(n, field, m.width-4)
	m.mode = modeEdit
	return m, m.editor.Focus()
}

func (m AppModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBoard
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBoard
		m.search.Blur()
		m.query = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.cursor = 0
	m.refresh()
	return m, cmd
}

// refresh re-reads the store and re-applies the filter.
func (m *AppModel) refresh() {
	m.visible = m.store.Notes().Filter(m.query)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *AppModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
	m.ensureVisible()
}

// ensureVisible scrolls so the cursor's grid row is on screen.
func (m *AppModel) ensureVisible() {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	row := m.cursor / columns(m.width)
	rows := visibleRows(m.height - chromeHeight)
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

func (m AppModel) selected() (notes.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return notes.Note{}, false
	}
	return m.visible[m.cursor], true
}

// report sets the status line. A persistence failure is shown as a warning;
// the board keeps the in-memory state either way.
func (m *AppModel) report(err error, ok string) tea.Cmd {
	switch {
	case err != nil:
		var perr *notes.PersistError
		switch {
		case errors.As(err, &perr) && !m.store.Loaded():
			m.status = "Saved notes could not be read, changes stay in this window (r to retry)"
		case errors.As(err, &perr):
			m.status = "Changes may not persist across restarts: " + perr.Err.Error()
		default:
			m.status = err.Error()
		}
		m.statusErr = true
		logs.Logger.Warnw("board operation failed", "error", err)
	case ok != "":
		m.status = ok
		m.statusErr = false
	default:
		return nil
	}
	m.statusSeq++
	return clearStatusAfter(m.statusSeq)
}

func paletteIndex(key string) int {
	if len(key) != 1 || key[0] < '1' {
		return -1
	}
	idx := int(key[0] - '1')
	if idx >= len(notes.Palette) {
		return -1
	}
	return idx
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return renderHelpPopup(m.theme, helpSections, m.width, m.height)
	}

	bodyHeight := m.height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch m.mode {
	case modeEdit:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.editor.View(m.theme),
			lipgloss.WithWhitespaceBackground(m.theme.Background))
	case modeConfirmClear:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.confirm.View(m.theme),
			lipgloss.WithWhitespaceBackground(m.theme.Background))
	default:
		body = renderBoard(m.theme, m.visible, m.cursor, m.offset, m.width, bodyHeight, m.query)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderToolbar(m.theme, m.store.Len(), m.width),
		body,
		m.renderStatusBar(),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(m.theme.Background))
}

func (m AppModel) renderStatusBar() string {
	var text string
	switch {
	case m.mode == modeSearch:
		text = m.search.View()
	case m.status != "" && m.statusErr:
		text = m.theme.Warn().Render(m.status)
	case m.status != "":
		text = m.theme.Ok().Render(m.status)
	case m.query != "":
		text = fmt.Sprintf("filter: %q  %d shown | esc: clear", m.query, len(m.visible))
	case m.mode == modeEdit:
		text = "editing"
	default:
		text = "1-5:new  enter:title  d:description  x:delete  /:filter  ?:help  q:quit"
	}
	return m.theme.StatusBar().Width(m.width).Render(text)
}
