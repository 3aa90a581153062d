package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/cli/styles"
)

var (
	journalLimit  int
	journalMoveID string
	journalJSON   bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List host messages recorded by 'composer serve'",
	Long: `List the host messages recorded in the journal, newest first.

The journal is written by 'composer serve' when journal.enabled is set.
Use --move to show the ELEMENT_MOVED and UNDO_ELEMENT_MOVED messages of a
single move in delivery order.`,
	Example: `  composer journal
  composer journal --limit 10 --json
  composer journal --move move_1718000000000_a1b2c3d4e`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 50, "number of messages to list")
	journalCmd.Flags().StringVar(&journalMoveID, "move", "", "only messages about this move id")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "print the delivered payloads as JSON lines")
}

func runJournal(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx := app.Ctx()
	journal := app.Journal()

	var (
		entries []port.JournalEntry
		err     error
	)
	if journalMoveID != "" {
		entries, err = journal.ByMoveID(ctx, journalMoveID)
	} else {
		entries, err = journal.Recent(ctx, journalLimit)
	}
	if err != nil {
		return fmt.Errorf("read journal %s: %w", app.JournalPath(), err)
	}

	out := cmd.OutOrStdout()
	if journalJSON {
		for _, e := range entries {
			if !json.Valid([]byte(e.Payload)) {
				continue
			}
			fmt.Fprintln(out, e.Payload)
		}
		return nil
	}

	fmt.Fprintln(out, styles.RenderJournal(app.Theme, entries))
	return nil
}
