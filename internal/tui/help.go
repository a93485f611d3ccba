package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stickies/internal/tui/theme"
)

// HelpBind represents a single keybind entry
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection represents a group of related keybinds
type HelpSection struct {
	Title string
	Binds []HelpBind
}

var helpSections = []HelpSection{
	{
		Title: "Notes",
		Binds: []HelpBind{
			{"1-5", "New note in palette color"},
			{"enter / e", "Edit title"},
			{"d", "Edit description"},
			{"x", "Delete note"},
			{"X", "Delete all notes"},
		},
	},
	{
		Title: "Navigation",
		Binds: []HelpBind{
			{"h/j/k/l", "Move selection"},
			{"g / G", "First / last note"},
			{"/", "Filter notes"},
			{"esc", "Clear filter"},
		},
	},
	{
		Title: "Display",
		Binds: []HelpBind{
			{"T", "Toggle light / dark"},
			{"r", "Reload from storage"},
			{"?", "Show this help"},
			{"q", "Quit"},
			{"ctrl+c", "Force quit"},
		},
	},
}

// renderHelpPopup renders a centered help popup with the given sections
func renderHelpPopup(t theme.Theme, sections []HelpSection, width, height int) string {
	sectionStyle := t.Title()
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Warning).Width(14)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	var content string
	for i, section := range sections {
		if i > 0 {
			content += "\n"
		}
		content += sectionStyle.Render(section.Title) + "\n"
		for _, bind := range section.Binds {
			content += "  " + keyStyle.Render(bind.Key) + descStyle.Render(bind.Desc) + "\n"
		}
	}

	content += "\n" + t.Muted().Render("Press any key to close")
	content = strings.TrimRight(content, "\n")

	box := t.ModalBox().Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceBackground(t.Background))
}
