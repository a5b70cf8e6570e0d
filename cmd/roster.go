package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/report"
)

// rosterEntry is one element of a roster JSON file.
type rosterEntry struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Goalkeeper bool   `json:"goalkeeper"`
	Position   string `json:"position"`
	Hand       string `json:"hand"`
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the players of a match",
}

var rosterLoadCmd = &cobra.Command{
	Use:   "load <match-id> <A|B> <roster.json>",
	Short: "Bulk-load one side's players from a JSON file",
	Long: `Load the players of one side while the match is still in SETUP.

The file is a JSON array:
  [{"number": 1, "name": "Keeper", "goalkeeper": true, "position": "GK", "hand": "R"},
   {"number": 7, "name": "Left Wing", "position": "LW", "hand": "L"}]

position (GK, LW, RW, LB, RB, CB, PV) and hand (R, L) are optional.
A shirt number already on that side rejects the whole file.`,
	Args: cobra.ExactArgs(3),
	RunE: runRosterLoad,
}

var rosterListCmd = &cobra.Command{
	Use:   "list <match-id>",
	Short: "List both rosters",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterList,
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <match-id> <A|B> <number>",
	Short: "Remove one player while the match is in SETUP",
	Args:  cobra.ExactArgs(3),
	RunE:  runRosterRemove,
}

func init() {
	rosterCmd.AddCommand(rosterLoadCmd, rosterListCmd, rosterRemoveCmd)
}

func readRosterFile(path string) ([]model.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}
	players := make([]model.Player, 0, len(entries))
	for _, e := range entries {
		pos, err := model.ParsePosition(e.Position)
		if err != nil {
			return nil, fmt.Errorf("player #%d: %w", e.Number, err)
		}
		hand, err := model.ParseHand(e.Hand)
		if err != nil {
			return nil, fmt.Errorf("player #%d: %w", e.Number, err)
		}
		p := model.Player{
			Number:       e.Number,
			Name:         strings.TrimSpace(e.Name),
			IsGoalkeeper: e.Goalkeeper,
			Position:     pos,
			Hand:         hand,
		}
		if p.Name == "" {
			return nil, fmt.Errorf("player #%d has no name", e.Number)
		}
		if p.Position == model.PositionGoalkeeper {
			p.IsGoalkeeper = true
		}
		players = append(players, p)
	}
	return players, nil
}

func runRosterLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	side, err := model.ParseSide(args[1])
	if err != nil {
		return err
	}
	players, err := readRosterFile(args[2])
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := loadSession(ctx, db, args[0])
	if err != nil {
		return err
	}
	if err := s.LoadRoster(ctx, side, players); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Loaded %d players for side %s.\n", len(players), side)
	report.PrintRoster(os.Stdout, s.Players(side))
	return nil
}

func runRosterList(cmd *cobra.Command, args []string) error {
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
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players loaded yet.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "A: %s  |  B: %s\n", m.TeamAName, m.TeamBName)
	report.PrintRoster(os.Stdout, players)
	return nil
}

func runRosterRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	side, err := model.ParseSide(args[1])
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid shirt number %q: %w", args[2], err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := loadSession(ctx, db, args[0])
	if err != nil {
		return err
	}
	if err := s.RemovePlayer(ctx, side, number); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed side %s #%d.\n", side, number)
	return nil
}
