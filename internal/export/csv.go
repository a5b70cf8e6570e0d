// Package export writes a match's event log out of the store: a flat CSV
// for spreadsheets and a compressed JSON archive that can be restored.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-hb-stats/internal/model"
)

// CSVHeader is the column order of WriteCSV.
var CSVHeader = []string{
	"time", "team", "player", "action", "loss_type", "defense", "court_zone", "goal_zone", "context",
}

// WriteCSV writes one row per record in commit order. loss_type holds the
// turnover or recovery kind and context the tags joined with "|".
func WriteCSV(w io.Writer, match model.Match, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write(csvRow(match, e)); err != nil {
			return fmt.Errorf("write event %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(match model.Match, e model.Event) []string {
	d := model.Flatten(e.Details)

	loss := string(d.TurnoverKind)
	if loss == "" {
		loss = string(d.RecoveryKind)
	}
	goalZone := ""
	if d.GoalZone.Valid() {
		goalZone = strconv.Itoa(int(d.GoalZone))
	}
	team := match.TeamName(e.Side)
	if team == "" {
		team = e.Side.String()
	}

	return []string{
		e.TimeFormatted(),
		team,
		strconv.Itoa(e.Player),
		string(e.Action),
		loss,
		string(d.Defense),
		string(d.CourtZone),
		goalZone,
		model.JoinTags(d.Tags),
	}
}
