package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"stickies/internal/config"
	"stickies/internal/logs"
	"stickies/internal/notes"
	"stickies/internal/storage"
)

// Run starts the interactive board and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config, store *notes.Store, kv storage.Storage) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan string
	if w, ok := kv.(storage.Watcher); ok {
		ch, err := w.Watch(ctx)
		if err != nil {
			logs.Logger.Warnw("could not watch storage, external edits will not show up", "error", err)
		} else {
			changes = ch
		}
	}

	logs.Logger.Infow("starting board", "notes", store.Len(), "backend", cfg.Backend, "theme", cfg.Theme)
	p := tea.NewProgram(NewAppModel(ctx, store, cfg.Theme, changes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
