package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/report"
)

var eventsCmd = &cobra.Command{
	Use:   "events <match-id>",
	Short: "Print the committed event log, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
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
		return err
	}
	report.PrintMatchSummary(os.Stdout, *m)
	report.PrintEventFeed(os.Stdout, *m, events)
	return nil
}
