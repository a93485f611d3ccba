package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stickies/internal/config"
	"stickies/internal/logs"
	"stickies/internal/notes"
	"stickies/internal/storage"
	"stickies/internal/tui"
)

// mutates marks commands that write notes. They refuse to run when the stored
// notes could not be read.
var mutates = map[string]string{"mutates": "true"}

// env holds what every command needs once flags are parsed.
type env struct {
	flags config.CLIFlags
	cfg   *config.Config
	kv    storage.Storage
	store *notes.Store
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, e := newRootCmd()
	err := root.ExecuteContext(ctx)
	e.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:   "stickies",
		Short: "Sticky notes for the terminal",
		Long: `stickies keeps a board of colored sticky notes.

Running stickies without a command opens the interactive board. The commands
below work on the same notes, so they can be scripted.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), e.cfg, e.store, e.kv)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.ConfigPath, "config", "", "config file (default ~/.config/stickies/config.yaml)")
	pf.StringVar(&e.flags.DataDir, "data-dir", "", "directory holding notes and debug.log")
	pf.StringVar(&e.flags.Backend, "backend", "", "storage backend: file, sqlite or memory")
	pf.StringVar(&e.flags.Theme, "theme", "", "initial theme: light or dark")

	writers := []*cobra.Command{newAddCmd(e), newSetCmd(e), newRmCmd(e), newClearCmd(e), newImportCmd(e)}
	for _, c := range writers {
		c.Annotations = mutates
	}
	root.AddCommand(writers...)
	root.AddCommand(newListCmd(e), newPaletteCmd(), newExportCmd(e))
	return root, e
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.flags)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	e.cfg = cfg

	if e.flags.ConfigPath == "" {
		if err := config.EnsureConfigFile(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create config file: %v\n", err)
		}
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	if cfg.Backend != config.BackendMemory {
		if err := logs.Initialize(cfg.DataDir, cfg.LogLevel); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not initialize logger: %v\n", err)
		}
	}

	kv, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}
	e.kv = kv

	e.store = notes.NewStore(kv,
		notes.WithKey(cfg.StorageKey),
		notes.WithDateLayout(cfg.DateLayout),
		notes.WithLogger(logs.Logger),
	)

	if err := e.store.Hydrate(cmd.Context()); err != nil {
		var perr *notes.PersistError
		if !errors.As(err, &perr) {
			return err
		}
		if cmd.Annotations["mutates"] == "true" {
			return fmt.Errorf("not changing notes that could not be read: %w", perr.Err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read saved notes, starting empty: %v\n", perr.Err)
	}
	return nil
}

func (e *env) close() {
	if e.kv != nil {
		if err := e.kv.Close(); err != nil {
			logs.Logger.Warnw("closing storage failed", "error", err)
		}
		e.kv = nil
	}
	_ = logs.Close()
}
