package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints a one-line scoreboard header for the match.
func PrintMatchSummary(w io.Writer, m model.Match) {
	fmt.Fprintf(w, "\n%s %d - %d %s  |  Clock: %s  |  Status: %s  |  ID: %s\n\n",
		m.TeamAName, m.ScoreA, m.ScoreB, m.TeamBName,
		model.FormatClock(m.ElapsedSeconds), m.Status, shortID(m.ID))
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.Match) {
	table := newTable(w)
	table.Header("ID", "DATE", "TEAM A", "TEAM B", "SCORE", "CLOCK", "STATUS")
	for _, m := range matches {
		table.Append(
			shortID(m.ID),
			m.CreatedAt.Local().Format("2006-01-02 15:04"),
			m.TeamAName,
			m.TeamBName,
			fmt.Sprintf("%d-%d", m.ScoreA, m.ScoreB),
			model.FormatClock(m.ElapsedSeconds),
			string(m.Status),
		)
	}
	table.Render()
}

// PrintRoster prints the players of one or both sides.
func PrintRoster(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("SIDE", "#", "NAME", "GK", "POS", "HAND")
	for _, p := range players {
		gk := ""
		if p.IsGoalkeeper {
			gk = "yes"
		}
		table.Append(
			p.Side.String(),
			strconv.Itoa(p.Number),
			p.Name,
			gk,
			orDash(string(p.Position)),
			orDash(string(p.Hand)),
		)
	}
	table.Render()
}

// PrintTeamTable prints the per-team shooting, ball-control and
// situational counters side by side.
func PrintTeamTable(w io.Writer, stats *model.MatchStats) {
	table := newTable(w)
	table.Header(
		"TEAM", "GOALS", "7M", "SAVED", "WIDE/POST", "BLOCKED", "7M_MISS",
		"SHOTS", "EFF%", "AST", "TO", "REC", "EQ", "PP", "SH", "POSS",
	)
	for _, side := range []model.Side{model.SideA, model.SideB} {
		s, ok := stats.Teams[side]
		if !ok {
			continue
		}
		table.Append(
			s.Name,
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.Goals7m),
			strconv.Itoa(s.SavedShots),
			strconv.Itoa(s.WidePost),
			strconv.Itoa(s.Blocked),
			strconv.Itoa(s.Missed7m),
			strconv.Itoa(s.Shots()),
			fmt.Sprintf("%d%%", s.Efficiency()),
			strconv.Itoa(s.Assists),
			strconv.Itoa(s.Turnovers),
			strconv.Itoa(s.Recoveries),
			strconv.Itoa(s.GoalsEqual),
			strconv.Itoa(s.GoalsPowerPlay),
			strconv.Itoa(s.GoalsShorthanded),
			strconv.Itoa(s.Possessions),
		)
	}
	table.Render()
}

// PrintGoalkeeperTable prints one row per goalkeeper who faced a shot.
func PrintGoalkeeperTable(w io.Writer, gks []model.GoalkeeperStats) {
	if len(gks) == 0 {
		fmt.Fprintln(w, "No goalkeeper has faced a shot yet.")
		return
	}
	table := newTable(w)
	table.Header("SIDE", "#", "NAME", "SAVES", "CONCEDED", "FACED", "SAVE%")
	for _, g := range gks {
		table.Append(
			g.Side.String(),
			strconv.Itoa(g.Number),
			orDash(g.Name),
			strconv.Itoa(g.Saves),
			strconv.Itoa(g.GoalsConceded),
			strconv.Itoa(g.ShotsFaced()),
			fmt.Sprintf("%d%%", g.SavePct()),
		)
	}
	table.Render()
}

// shades maps intensity to a block glyph, coldest first.
var shades = []string{"  ", "░░", "▒▒", "▓▓", "██"}

func shade(intensity float64) string {
	if intensity <= 0 {
		return shades[0]
	}
	i := int(intensity*float64(len(shades)-1) + 0.5)
	return shades[max(1, min(i, len(shades)-1))]
}

// PrintHeatmap draws the goal as a 3x3 grid seen from the shooter, each
// cell showing goals/saves, the conversion ratio and an intensity shade.
func PrintHeatmap(w io.Writer, h *model.Heatmap) {
	side := "both sides"
	if h.Filter.Shooter != model.SideUnknown {
		side = "side " + h.Filter.Shooter.String()
	}
	view := h.Filter.View
	if view == "" {
		view = model.ViewAll
	}
	fmt.Fprintf(w, "Heatmap: %s, view %s, %d shots\n", side, view, h.TotalShots)

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("LEFT", "CENTRE", "RIGHT")
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			z := h.Zone(model.GoalZone(row*3 + col + 1))
			cells[col] = fmt.Sprintf("%s %d  %dG/%dS  %.0f%%",
				shade(z.Intensity), z.Zone, z.Goals, z.Saves, 100*z.Ratio())
		}
		table.Append(cells[0], cells[1], cells[2])
	}
	table.Render()
}

// PrintEventFeed prints the committed log, oldest first.
func PrintEventFeed(w io.Writer, m model.Match, events []model.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events recorded.")
		return
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("TIME", "TEAM", "#", "ACTION", "DETAILS")
	for _, e := range events {
		label := string(e.Action)
		if entry, ok := catalog.Lookup(e.Action); ok {
			label = entry.Label
		}
		table.Append(
			e.TimeFormatted(),
			m.TeamName(e.Side),
			strconv.Itoa(e.Player),
			label,
			DescribeDetails(e.Details),
		)
	}
	table.Render()
}

// DescribeDetails renders the filled detail fields as "key=value" pairs.
func DescribeDetails(d model.Details) string {
	f := model.Flatten(d)
	var parts []string
	if f.CourtZone != "" {
		parts = append(parts, "court="+string(f.CourtZone))
	}
	if f.GoalZone.Valid() {
		parts = append(parts, "goal="+strconv.Itoa(int(f.GoalZone)))
	}
	if f.Defense != "" {
		parts = append(parts, "def="+string(f.Defense))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags="+model.JoinTags(f.Tags))
	}
	if f.RivalGoalkeeper != 0 {
		parts = append(parts, "gk=#"+strconv.Itoa(f.RivalGoalkeeper))
	}
	if f.TurnoverKind != "" {
		parts = append(parts, "type="+string(f.TurnoverKind))
	}
	if f.RecoveryKind != "" {
		parts = append(parts, "type="+string(f.RecoveryKind))
	}
	return strings.Join(parts, " ")
}

// PrintActionMenu lists catalog entries with the fields each one needs.
func PrintActionMenu(w io.Writer, entries []catalog.Entry) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("ACTION", "LABEL", "REQUIRED", "OPTIONAL")
	for _, e := range entries {
		var req, opt []string
		for _, f := range e.Offered.List() {
			if e.Required.Has(f) {
				req = append(req, f.String())
			} else {
				opt = append(opt, f.String())
			}
		}
		table.Append(string(e.ID), e.Label, orDash(strings.Join(req, ",")), orDash(strings.Join(opt, ",")))
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintQueryResult prints the rows of an ad-hoc query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}
