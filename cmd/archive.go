package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/export"
)

var archiveOut string

var archiveCmd = &cobra.Command{
	Use:   "archive <match-id>",
	Short: "Write a match, its rosters and its log to a compressed archive",
	Long: `Serialize the match header, both rosters and the full event log as JSON
compressed with zstd. The file can be loaded into another database with
'hbstats restore'.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <archive.json.zst>",
	Short: "Import a match from an archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	archiveCmd.Flags().StringVarP(&archiveOut, "out", "o", "", "output file (default <match-id>.json.zst)")
}

func runArchive(cmd *cobra.Command, args []string) error {
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
	players, err := db.ListPlayers(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	events, err := db.ListEvents(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	out := archiveOut
	if out == "" {
		out = m.ID + ".json.zst"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.WriteArchive(f, export.NewArchive(*m, players, events)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Archived %s vs %s (%d players, %d events) to %s\n",
		m.TeamAName, m.TeamBName, len(players), len(events), out)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	a, err := export.ReadArchive(f)
	if err != nil {
		return err
	}
	m, players, events, err := a.Unpack()
	if err != nil {
		return fmt.Errorf("unpack archive: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if existing, err := db.GetMatch(cmd.Context(), m.ID); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("match %s already exists; delete it first", m.ID)
	}
	if err := db.ImportMatch(cmd.Context(), &m, players, events); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Restored %s vs %s (%d players, %d events) as %s\n",
		m.TeamAName, m.TeamBName, len(players), len(events), m.ID)
	return nil
}
