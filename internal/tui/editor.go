package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stickies/internal/notes"
	"stickies/internal/tui/theme"
)

// EditorModel edits one field of one note. Titles use a single-line input,
// descriptions a textarea.
type EditorModel struct {
	noteID int64
	field  notes.Field
	bg     string
	input  textinput.Model
	area   textarea.Model
	Width  int
}

// EditorResultMsg is sent when the editor closes
type EditorResultMsg struct {
	ID        int64
	Field     notes.Field
	Value     string
	Cancelled bool
}

func NewEditor(n notes.Note, field notes.Field, width int) *EditorModel {
	m := &EditorModel{
		noteID: n.ID,
		field:  field,
		bg:     n.BG,
	}

	switch field {
	case notes.FieldTitle:
		ti := textinput.New()
		ti.Placeholder = "Add Note"
		ti.CharLimit = 256
		ti.SetValue(n.Title)
		m.input = ti
	default:
		ta := textarea.New()
		ta.Placeholder = "Description here!"
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(8)
		ta.SetValue(n.Description)
		m.area = ta
	}

	m.SetWidth(width)
	return m
}

// Focus focuses the active input and returns its blink command.
func (m *EditorModel) Focus() tea.Cmd {
	if m.field == notes.FieldTitle {
		return m.input.Focus()
	}
	return m.area.Focus()
}

// SetWidth sizes the editor box and the input inside it.
func (m *EditorModel) SetWidth(w int) {
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	m.Width = w
	// horizontal padding (4) plus room for the cursor
	inner := w - 6
	if m.field == notes.FieldTitle {
		m.input.Width = inner - lipgloss.Width(m.input.Prompt)
	} else {
		m.area.SetWidth(inner)
	}
}

func (m *EditorModel) Value() string {
	if m.field == notes.FieldTitle {
		return m.input.Value()
	}
	return m.area.Value()
}

func (m *EditorModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m.result(true)
		case "ctrl+s":
			return m.result(false)
		case "enter":
			if m.field == notes.FieldTitle {
				return m.result(false)
			}
		}
	}

	var cmd tea.Cmd
	if m.field == notes.FieldTitle {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.area, cmd = m.area.Update(msg)
	}
	return cmd
}

func (m *EditorModel) result(cancelled bool) tea.Cmd {
	res := EditorResultMsg{
		ID:        m.noteID,
		Field:     m.field,
		Value:     m.Value(),
		Cancelled: cancelled,
	}
	return func() tea.Msg { return res }
}

func (m *EditorModel) View(t theme.Theme) string {
	var content string

	label := "Edit title"
	hint := "[enter] save  [esc] cancel"
	body := m.input.View()
	if m.field == notes.FieldDescription {
		label = "Edit description"
		hint = "[ctrl+s] save  [esc] cancel"
		body = m.area.View()
	}

	content += t.Swatch(m.bg, label) + "\n\n"
	content += body + "\n\n"
	content += t.Muted().Render(hint)

	return t.ModalBox().BorderForeground(lipgloss.Color("#" + m.bg)).Width(m.Width).Render(content)
}
