package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/report"
)

var undoCmd = &cobra.Command{
	Use:   "undo <match-id>",
	Short: "Remove the most recent event and revert its score effect",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

func runUndo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := loadSession(ctx, db, args[0])
	if err != nil {
		return err
	}
	removed, err := s.Undo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Undone: %s #%d %s at %s\n", removed.Side, removed.Player, removed.Action, removed.TimeFormatted())
	report.PrintMatchSummary(os.Stdout, s.Match())
	return nil
}
