package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 4 * time.Second

// externalChangeMsg reports that another process rewrote a storage key.
type externalChangeMsg struct {
	Key string
}

// clearStatusMsg hides the status line unless a newer status replaced it.
type clearStatusMsg struct {
	seq int
}

func waitForChange(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-ch
		if !ok {
			return nil
		}
		return externalChangeMsg{Key: key}
	}
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
