package theme

import "github.com/charmbracelet/lipgloss"

// Theme is one display palette. Switching themes is presentation state only.
type Theme struct {
	Name string

	Background lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	Primary    lipgloss.Color
	Warning    lipgloss.Color
	Danger     lipgloss.Color
	Success    lipgloss.Color
	Border     lipgloss.Color

	// CardText is drawn on top of the palette colors, which are light in
	// both themes.
	CardText  lipgloss.Color
	CardMuted lipgloss.Color
}

var (
	Light = Theme{
		Name:       "light",
		Background: lipgloss.Color("#F3F4F6"),
		Text:       lipgloss.Color("#111827"),
		TextMuted:  lipgloss.Color("#6B7280"),
		Primary:    lipgloss.Color("#2563EB"),
		Warning:    lipgloss.Color("#B45309"),
		Danger:     lipgloss.Color("#DC2626"),
		Success:    lipgloss.Color("#059669"),
		Border:     lipgloss.Color("#D1D5DB"),
		CardText:   lipgloss.Color("#111827"),
		CardMuted:  lipgloss.Color("#4B5563"),
	}

	Dark = Theme{
		Name:       "dark",
		Background: lipgloss.Color("#111827"),
		Text:       lipgloss.Color("#F9FAFB"),
		TextMuted:  lipgloss.Color("#9CA3AF"),
		Primary:    lipgloss.Color("#60A5FA"),
		Warning:    lipgloss.Color("#FBBF24"),
		Danger:     lipgloss.Color("#F87171"),
		Success:    lipgloss.Color("#34D399"),
		Border:     lipgloss.Color("#374151"),
		CardText:   lipgloss.Color("#111827"),
		CardMuted:  lipgloss.Color("#374151"),
	}
)

// ByName returns Dark for "dark" and Light for anything else.
func ByName(name string) Theme {
	if name == Dark.Name {
		return Dark
	}
	return Light
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == Dark.Name {
		return Light
	}
	return Dark
}

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextMuted)
}

func (t Theme) Warn() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
}

func (t Theme) Error() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Danger)
}

func (t Theme) Ok() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Success)
}

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

func (t Theme) ModalBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
}

func (t Theme) StatusBar() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Border)
}

func (t Theme) Toolbar() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border).
		PaddingLeft(1)
}

// Swatch renders label on the given palette hex.
func (t Theme) Swatch(hex, label string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("#" + hex)).
		Foreground(t.CardText).
		Bold(true).
		Padding(0, 1).
		Render(label)
}
