package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/clock"
	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/report"
	"github.com/pable/go-hb-stats/internal/session"
	"github.com/pable/go-hb-stats/internal/storage"
)

var (
	matchPossession string
	matchDeleteForce  bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Create matches and drive their lifecycle",
}

var matchNewCmd = &cobra.Command{
	Use:   "new <team-a> <team-b>",
	Short: "Create a match in SETUP",
	Args:  cobra.ExactArgs(2),
	RunE:  runMatchNew,
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMatchList,
}

var matchShowCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show a match header, roster and event feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchShow,
}

var matchStartCmd = &cobra.Command{
	Use:   "start <match-id>",
	Short: "Kick off a match (SETUP -> IN_PROGRESS)",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session.Session, _ []string) error {
		initial := model.SideUnknown
		if matchPossession != "" {
			side, err := model.ParseSide(matchPossession)
			if err != nil {
				return fmt.Errorf("--possession: %w", err)
			}
			initial = side
		}
		return s.Start(ctx, initial)
	}),
}

var matchPauseCmd = &cobra.Command{
	Use:   "pause <match-id>",
	Short: "Pause a running match",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session.Session, _ []string) error {
		return s.Pause(ctx)
	}),
}

var matchResumeCmd = &cobra.Command{
	Use:   "resume <match-id>",
	Short: "Resume a paused match",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session.Session, _ []string) error {
		return s.Resume(ctx)
	}),
}

var matchFinishCmd = &cobra.Command{
	Use:   "finish <match-id>",
	Short: "Finish a match; no further capture or undo",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session.Session, _ []string) error {
		return s.Finish(ctx)
	}),
}

var matchDefenseCmd = &cobra.Command{
	Use:   "defense <match-id> <A|B> <6:0|5:1|3:2:1|4:2|MIXED|PRESS|OTHER>",
	Short: "Declare the defensive formation a side is playing",
	Args:  cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, s *session.Session, args []string) error {
		side, err := model.ParseSide(args[1])
		if err != nil {
			return err
		}
		return s.SetDefense(ctx, side, model.DefenseType(args[2]))
	}),
}

var matchClockCmd = &cobra.Command{
	Use:   "clock <match-id> <mm:ss>",
	Short: "Correct the stored match clock",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session.Session, args []string) error {
		secs, err := clock.ParseClock(args[1])
		if err != nil {
			return err
		}
		return s.SetClock(ctx, secs)
	}),
}

var matchDeleteCmd = &cobra.Command{
	Use:   "delete <match-id>",
	Short: "Delete a match with its roster and event log",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchDelete,
}

func init() {
	matchStartCmd.Flags().StringVar(&matchPossession, "possession", "", "side in possession at kick-off (A or B)")
	matchDeleteCmd.Flags().BoolVarP(&matchDeleteForce, "force", "f", false, "skip confirmation prompt")

	matchCmd.AddCommand(matchNewCmd, matchListCmd, matchShowCmd, matchStartCmd, matchPauseCmd,
		matchResumeCmd, matchFinishCmd, matchDefenseCmd, matchClockCmd, matchDeleteCmd)
}

// withSession loads the match named by args[0] into a session, runs fn and
// prints the resulting header.
func withSession(fn func(ctx context.Context, s *session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
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
		if err := fn(ctx, s, args); err != nil {
			return err
		}
		report.PrintMatchSummary(os.Stdout, s.Match())
		return nil
	}
}

func loadSession(ctx context.Context, db *storage.DB, prefix string) (*session.Session, error) {
	m, err := findMatch(ctx, db, prefix)
	if err != nil {
		return nil, err
	}
	return session.Load(ctx, db, m.ID)
}

func runMatchNew(cmd *cobra.Command, args []string) error {
	a, b := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	if a == "" || b == "" {
		return fmt.Errorf("team names must not be empty")
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m := &model.Match{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		TeamAName: a,
		TeamBName: b,
		Status:    model.StatusSetup,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.CreateMatch(cmd.Context(), m); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Created match %s: %s (A) vs %s (B)\n", m.ID[:12], a, b)
	fmt.Fprintln(os.Stdout, "Load rosters with 'hbstats roster load', then 'hbstats match start'.")
	return nil
}

func runMatchList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'hbstats match new <team-a> <team-b>' to add one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}

func runMatchShow(cmd *cobra.Command, args []string) error {
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

	report.PrintMatchSummary(os.Stdout, *m)
	if m.DefenseA != "" || m.DefenseB != "" {
		fmt.Fprintf(os.Stdout, "Defense: %s %s  |  %s %s\n\n", m.TeamAName, orNone(m.DefenseA), m.TeamBName, orNone(m.DefenseB))
	}
	if len(players) > 0 {
		report.PrintRoster(os.Stdout, players)
		fmt.Fprintln(os.Stdout)
	}
	report.PrintEventFeed(os.Stdout, *m, events)
	return nil
}

func runMatchDelete(cmd *cobra.Command, args []string) error {
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
	if !matchDeleteForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete %s vs %s (%s).\n", m.TeamAName, m.TeamBName, m.ID)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteMatch(ctx, m.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", m.ID)
	return nil
}

func orNone(d model.DefenseType) string {
	if d == "" {
		return "(none)"
	}
	return string(d)
}
