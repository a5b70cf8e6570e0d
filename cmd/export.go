package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <match-id>",
	Short: "Export a match's event log as CSV",
	Long: `Write one CSV row per committed event in chronological order.

Columns: time, team, player, action, loss_type, defense, court_zone,
goal_zone, context. loss_type carries the turnover or recovery kind and
context the situational tags joined with "|".

Example:
  hbstats export 3f9a1c --out final.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(ctx, db, args[0])
	if err != nil {
		return err
	}
	events, err := db.ListEvents(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteCSV(w, *m, events); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", len(events), exportOut)
	}
	return nil
}
