package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"stickies/internal/notes"
)

const listDescWidth = 40

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <color>",
		Short: "Add a blank note in a palette color",
		Long: `Add creates an empty note at the top of the board and prints its id.

The color is a palette name (amber, orange, purple, lime, emerald) or its hex
value, with or without a leading #.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.store.AddNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	var (
		asJSON bool
		search string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := e.store.Notes().Filter(search)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if c == nil {
					c = notes.Collection{}
				}
				return enc.Encode(c)
			}

			if len(c) == 0 {
				fmt.Fprintln(out, "No notes found.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "COLOR", "DATE", "TITLE", "DESCRIPTION")
			for _, n := range c {
				t.Row(strconv.FormatInt(n.ID, 10), notes.ColorName(n.BG), n.Date, n.Title, firstLine(n.Description, listDescWidth))
			}
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%d note(s)\n", len(c))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON form")
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy filter on title and description")
	return cmd
}

func newSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <title|description> <value>...",
		Short: "Replace the title or description of a note",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			field, err := notes.ParseField(args[1])
			if err != nil {
				return err
			}

			value := strings.Join(args[2:], " ")
			updated, err := e.store.UpdateField(cmd.Context(), id, field, value)
			if err != nil {
				return err
			}
			if !updated {
				return fmt.Errorf("no note with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s of note %d\n", field, id)
			return nil
		},
	}
}

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete one note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := e.store.DeleteSingle(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no note with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
			return nil
		},
	}
}

func newClearCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			count := e.store.Len()

			if !yes {
				fmt.Fprintf(out, "Delete all %d notes? [y/N] ", count)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			if err := e.store.DeleteAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d notes\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Show the note colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, sw := range notes.Palette {
				chip := lipgloss.NewStyle().Background(lipgloss.Color("#" + sw.Hex)).Render("    ")
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %-8s #%s\n", i+1, chip, sw.Name, sw.Hex)
			}
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every note as a markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := notes.ExportMarkdown(args[0], e.store.Notes())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", len(paths), args[0])
			return nil
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>...",
		Short: "Add notes from markdown files",
		Long: `Import reads markdown files written by export (or by hand) and puts them
at the top of the board in the order given. Notes whose id is already on the
board are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming := make([]notes.Note, 0, len(args))
			for _, path := range args {
				n, err := notes.ReadMarkdownFile(path)
				if err != nil {
					return err
				}
				incoming = append(incoming, n)
			}

			added, err := e.store.Import(cmd.Context(), incoming)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d notes\n", added, len(incoming))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

// firstLine returns the first line of s, cut to width runes.
func firstLine(s string, width int) string {
	line, _, more := strings.Cut(s, "\n")
	r := []rune(line)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
