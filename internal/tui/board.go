package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stickies/internal/notes"
	"stickies/internal/tui/theme"
)

const (
	cardWidth     = 30 // including horizontal padding
	cardDescLines = 5
	cardGap       = 1

	// title + blank + description + blank + footer, plus the border
	cardOuterHeight = 1 + 1 + cardDescLines + 1 + 1 + 2
	cardOuterWidth  = cardWidth + 2
)

// columns returns how many cards fit side by side.
func columns(width int) int {
	cols := (width - 1) / (cardOuterWidth + cardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

// visibleRows returns how many card rows fit in height.
func visibleRows(height int) int {
	rows := height / cardOuterHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func renderCard(t theme.Theme, n notes.Note, selected bool) string {
	bg := lipgloss.Color("#" + n.BG)
	inner := cardWidth - 2

	text := lipgloss.NewStyle().Background(bg).Foreground(t.CardText).Width(inner)
	muted := text.Foreground(t.CardMuted)

	title := text.Bold(true).MaxHeight(1).Render(n.Title)
	if n.Title == "" {
		title = muted.Italic(true).Render("Add Note")
	}

	desc := text.Height(cardDescLines).MaxHeight(cardDescLines).Render(n.Description)
	if n.Description == "" {
		desc = muted.Italic(true).Height(cardDescLines).Render("Description here!")
	}

	name := notes.ColorName(n.BG)
	gap := inner - lipgloss.Width(n.Date) - lipgloss.Width(name)
	if gap < 1 {
		gap = 1
	}
	footer := muted.Render(n.Date + strings.Repeat(" ", gap) + name)

	blank := text.Render("")
	body := lipgloss.JoinVertical(lipgloss.Left, title, blank, desc, blank, footer)

	card := lipgloss.NewStyle().
		Background(bg).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	if selected {
		card = card.Border(lipgloss.ThickBorder()).BorderForeground(t.Primary)
	}
	return card.Render(body)
}

// renderBoard lays out cards in a grid, starting at grid row offset.
func renderBoard(t theme.Theme, c notes.Collection, cursor, offset, width, height int, query string) string {
	if len(c) == 0 {
		msg := "You don't have any notes."
		if query != "" {
			msg = fmt.Sprintf("No notes match %q.", query)
		}
		hint := t.Muted().Render("Press 1-5 to add one, ? for help.")
		block := lipgloss.JoinVertical(lipgloss.Center, t.Muted().Render(msg), "", hint)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block,
			lipgloss.WithWhitespaceBackground(t.Background))
	}

	cols := columns(width)
	rows := visibleRows(height)
	spacer := lipgloss.NewStyle().Width(cardGap).Render("")

	var lines []string
	for r := offset; r < offset+rows; r++ {
		start := r * cols
		if start >= len(c) {
			break
		}
		end := start + cols
		if end > len(c) {
			end = len(c)
		}

		var cards []string
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, spacer)
			}
			cards = append(cards, renderCard(t, c[i], i == cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, grid,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func renderToolbar(t theme.Theme, count int, width int) string {
	var swatches []string
	for i, sw := range notes.Palette {
		swatches = append(swatches, t.Swatch(sw.Hex, fmt.Sprintf("%d", i+1)))
	}

	left := t.Title().Render("stickies") + "  " + strings.Join(swatches, " ")

	noun := "notes"
	if count == 1 {
		noun = "note"
	}
	right := t.Muted().Render(fmt.Sprintf("%d %s  X:clear  T:%s", count, noun, t.Toggle().Name))

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return t.Toolbar().Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
