package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match database",
	Long: `Run an arbitrary SQL query against the match database and print results as a table.

Schema overview:
  matches(id, team_a, team_b, defense_a, defense_b, score_a, score_b,
    elapsed_seconds, initial_possession, status, created_at)
  players(match_id, side, number, name, is_goalkeeper, position, hand)
  events(seq, id, match_id, elapsed_seconds, time_formatted, player_number, side,
    action, court_zone, goal_zone, defense, tags, rival_goalkeeper,
    turnover_kind, recovery_kind, created_at)

Events are ordered by seq. tags is "|"-separated, e.g. 'PP|FB'.
Example: hbstats sql "SELECT action, COUNT(*) FROM events GROUP BY action"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

