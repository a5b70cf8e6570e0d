package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/clock"
	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/report"
	"github.com/pable/go-hb-stats/internal/session"
	"github.com/pable/go-hb-stats/internal/wizard"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
	cOK       = color.New(color.FgGreen)
)

var shellCmd = &cobra.Command{
	Use:   "shell <match-id>",
	Short: "Start the interactive capture session for a match",
	Long:  "Open a live capture session: pick a player, pick an action, fill its details, confirm. Type 'help' for available commands.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
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
	sh := newCaptureShell(s, os.Stdout, os.Stderr)

	m := s.Match()
	cGreeting.Fprintf(sh.out, "hbstats capture: %s vs %s\n", m.TeamAName, m.TeamBName)
	cMuted.Fprintln(sh.out, "type 'help' or 'exit'")
	fmt.Fprintln(sh.out)

	err = sh.run(ctx, os.Stdin)
	if serr := s.Sync(ctx); serr != nil {
		cWarn.Fprintf(sh.errOut, "could not save clock: %v\n", serr)
	}
	return err
}

// captureShell drives one wizard against one session from line input.
type captureShell struct {
	s      *session.Session
	w      *wizard.Wizard
	out    io.Writer
	errOut io.Writer
}

func newCaptureShell(s *session.Session, out, errOut io.Writer) *captureShell {
	return &captureShell{
		s:      s,
		w:      wizard.New(s.Match().ID, s, s, s),
		out:    out,
		errOut: errOut,
	}
}

func (sh *captureShell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		sh.prompt()
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := sh.exec(ctx, line); quit {
			return nil
		}
	}
}

func (sh *captureShell) prompt() {
	m := sh.s.Match()
	cPrompt.Fprintf(sh.out, "%s %d-%d", model.FormatClock(m.ElapsedSeconds), m.ScoreA, m.ScoreB)
	if p, ok := sh.w.Player(); ok {
		cMuted.Fprintf(sh.out, " %s#%d", p.Side, p.Number)
	}
	if a, ok := sh.w.Action(); ok {
		cMuted.Fprintf(sh.out, " %s", a.ID)
	}
	cMuted.Fprint(sh.out, "> ")
}

// exec runs one command line and reports whether the shell should exit.
func (sh *captureShell) exec(ctx context.Context, line string) bool {
	tokens := strings.Fields(line)
	cmd, args := strings.ToLower(tokens[0]), tokens[1:]

	var err error
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		sh.help()
	case "p", "player":
		err = sh.selectPlayer(args)
	case "a", "action":
		err = sh.selectAction(ctx, args)
	case "def", "court", "goal", "tag", "gk", "to", "rec":
		err = sh.setField(cmd, args)
	case "clear":
		err = sh.clearField(args)
	case "ok", "confirm":
		err = sh.confirm(ctx)
	case "back":
		sh.w.Back()
	case "cancel":
		sh.w.Reset()
	case "show":
		sh.showDraft()
	case "menu":
		if menu := sh.w.Menu(); menu != nil {
			report.PrintActionMenu(sh.out, menu)
		} else {
			report.PrintActionMenu(sh.out, catalog.All())
		}
	case "undo":
		err = sh.undo(ctx)
	case "start", "pause", "resume", "finish":
		err = sh.lifecycle(ctx, cmd, args)
	case "clock":
		err = sh.setClock(ctx, args)
	case "adj":
		err = sh.adjustClock(ctx, args)
	case "setdef":
		err = sh.declareDefense(ctx, args)
	case "score":
		report.PrintMatchSummary(sh.out, sh.s.Match())
	case "feed":
		report.PrintEventFeed(sh.out, sh.s.Match(), lastN(sh.s.Events(), 15))
	case "stats":
		err = sh.stats()
	case "heatmap":
		err = sh.heatmap(args)
	case "poss":
		holder, counts := sh.s.Possession()
		fmt.Fprintf(sh.out, "Ball: %s  |  possessions A %d, B %d\n", holder, counts[model.SideA], counts[model.SideB])
	case "roster":
		sh.roster(args)
	default:
		cWarn.Fprintf(sh.errOut, "unknown command %q, type 'help'\n", cmd)
	}
	if err != nil {
		sh.printError(err)
	}
	return false
}

func (sh *captureShell) printError(err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		names := make([]string, len(verr.Missing))
		for i, f := range verr.Missing {
			names[i] = f.String()
		}
		cWarn.Fprintf(sh.errOut, "cannot confirm %s yet, missing: %s\n", verr.Action, strings.Join(names, ", "))
		return
	}
	cError.Fprintf(sh.errOut, "error: %v\n", err)
}

func (sh *captureShell) help() {
	fmt.Fprintln(sh.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"p <A|B> <number>", "select the acting player"},
		{"a <ACTION>", "select an action from the player's menu"},
		{"def <6:0|5:1|...>", "defense faced"},
		{"court <LW|LB|CB|RB|RW|PV|9M>", "court zone"},
		{"goal <1-9>", "goal zone, row-major from top-left"},
		{"tag <EQ|PP|SH|FB>", "toggle a situational tag"},
		{"gk <number>", "rival goalkeeper"},
		{"to <type> / rec <type>", "turnover / recovery type"},
		{"clear <field>", "empty a detail field"},
		{"ok", "confirm and commit the event"},
		{"back / cancel", "step back / abandon the capture"},
		{"show / menu", "current draft / available actions"},
		{"undo", "remove the last committed event"},
		{"start [A|B] / pause / resume / finish", "match lifecycle"},
		{"clock <mm:ss> / adj <+-seconds>", "correct the match clock"},
		{"setdef <A|B> <type>", "declare the defense a side plays"},
		{"score / feed / stats / poss", "live views"},
		{"heatmap [A|B] [ALL|WING|7M]", "goal-zone heatmap"},
		{"roster [A|B]", "list players"},
		{"exit / quit", "save the clock and close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(sh.out, "  ")
		cCmd.Fprintf(sh.out, "%-40s", r.cmd)
		fmt.Fprintln(sh.out, r.desc)
	}
	fmt.Fprintln(sh.out)
}

func (sh *captureShell) selectPlayer(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: p <A|B> <number>")
	}
	side, err := model.ParseSide(args[0])
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid shirt number %q", args[1])
	}
	if err := sh.w.SelectPlayer(side, number); err != nil {
		return err
	}
	p, _ := sh.w.Player()
	role := "field player"
	if p.IsGoalkeeper {
		role = "goalkeeper"
	}
	cHeader.Fprintf(sh.out, "%s #%d %s (%s)\n", p.Side, p.Number, p.Name, role)
	report.PrintActionMenu(sh.out, sh.w.Menu())
	return nil
}

func (sh *captureShell) selectAction(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: a <ACTION>")
	}
	entry, ok := catalog.Parse(args[0])
	if !ok {
		return fmt.Errorf("unknown action %q", args[0])
	}
	e, err := sh.w.SelectAction(ctx, entry.ID)
	if err != nil {
		return err
	}
	if e != nil {
		sh.committed(*e)
		return nil
	}
	if err := sh.prefillGoalkeeper(); err != nil {
		log.WithError(err).Debug("rival goalkeeper not prefilled")
	}
	sh.showDraft()
	return nil
}

// prefillGoalkeeper names the rival goalkeeper when the opponent has only one.
func (sh *captureShell) prefillGoalkeeper() error {
	a, _ := sh.w.Action()
	if !a.Offered.Has(catalog.FieldRivalGoalkeeper) {
		return nil
	}
	p, _ := sh.w.Player()
	if gks := sh.s.Goalkeepers(p.Side.Opponent()); len(gks) == 1 {
		return sh.w.SetRivalGoalkeeper(gks[0].Number)
	}
	return nil
}

func (sh *captureShell) setField(cmd string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <value>", cmd)
	}
	v := args[0]
	var err error
	switch cmd {
	case "def":
		err = sh.w.SetDefense(model.DefenseType(v))
	case "court":
		err = sh.w.SetCourtZone(model.CourtZone(v))
	case "goal":
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidGoalZone, v)
		}
		err = sh.w.SetGoalZone(model.GoalZone(n))
	case "tag":
		err = sh.w.ToggleTag(model.Tag(v))
	case "gk":
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return fmt.Errorf("invalid shirt number %q", v)
		}
		err = sh.w.SetRivalGoalkeeper(n)
	case "to":
		err = sh.w.SetTurnoverKind(model.TurnoverType(v))
	case "rec":
		err = sh.w.SetRecoveryKind(model.RecoveryType(v))
	}
	if err != nil {
		return err
	}
	sh.showDraft()
	return nil
}

func (sh *captureShell) clearField(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: clear <field>")
	}
	for _, f := range catalog.AllFields {
		if f.String() == strings.ToLower(args[0]) {
			return sh.w.Clear(f)
		}
	}
	return fmt.Errorf("unknown field %q", args[0])
}

func (sh *captureShell) confirm(ctx context.Context) error {
	e, err := sh.w.Confirm(ctx)
	if err != nil {
		return err
	}
	sh.committed(e)
	return nil
}

func (sh *captureShell) committed(e model.Event) {
	m := sh.s.Match()
	cOK.Fprintf(sh.out, "✓ %s %s #%d %s %s\n", e.TimeFormatted(), m.TeamName(e.Side), e.Player, e.Action, report.DescribeDetails(e.Details))
}

func (sh *captureShell) showDraft() {
	a, ok := sh.w.Action()
	if !ok {
		cMuted.Fprintf(sh.out, "state: %s\n", sh.w.State())
		return
	}
	f := sh.w.Fields()
	cHeader.Fprintf(sh.out, "%s: ", a.Label)
	fmt.Fprintln(sh.out, orDashStr(report.DescribeDetails(f.Build(a.Shape))))
	if missing := sh.w.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = m.String()
		}
		cWarn.Fprintf(sh.out, "  needs: %s\n", strings.Join(names, ", "))
	} else {
		cOK.Fprintln(sh.out, "  ready, type 'ok' to commit")
	}
}

func (sh *captureShell) undo(ctx context.Context) error {
	e, err := sh.s.Undo(ctx)
	if err != nil {
		return err
	}
	cWarn.Fprintf(sh.out, "undone: %s %s #%d %s\n", e.TimeFormatted(), e.Side, e.Player, e.Action)
	return nil
}

func (sh *captureShell) lifecycle(ctx context.Context, cmd string, args []string) error {
	var err error
	switch cmd {
	case "start":
		initial := model.SideUnknown
		if len(args) > 0 {
			if initial, err = model.ParseSide(args[0]); err != nil {
				return err
			}
		}
		err = sh.s.Start(ctx, initial)
	case "pause":
		err = sh.s.Pause(ctx)
	case "resume":
		err = sh.s.Resume(ctx)
	case "finish":
		sh.w.Reset()
		err = sh.s.Finish(ctx)
	}
	if err != nil {
		return err
	}
	cMuted.Fprintf(sh.out, "match is %s\n", sh.s.Match().Status)
	return nil
}

func (sh *captureShell) setClock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: clock <mm:ss>")
	}
	secs, err := clock.ParseClock(args[0])
	if err != nil {
		return err
	}
	return sh.s.SetClock(ctx, secs)
}

func (sh *captureShell) adjustClock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: adj <+-seconds>")
	}
	delta, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid seconds %q", args[0])
	}
	sh.s.Clock().Adjust(delta)
	return sh.s.Sync(ctx)
}

func (sh *captureShell) declareDefense(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: setdef <A|B> <type>")
	}
	side, err := model.ParseSide(args[0])
	if err != nil {
		return err
	}
	return sh.s.SetDefense(ctx, side, model.DefenseType(args[1]))
}

func (sh *captureShell) stats() error {
	stats, err := sh.s.Stats()
	if err != nil {
		return err
	}
	report.PrintTeamTable(sh.out, stats)
	report.PrintGoalkeeperTable(sh.out, stats.Goalkeepers)
	return nil
}

func (sh *captureShell) heatmap(args []string) error {
	var side, view string
	for _, a := range args {
		if _, err := model.ParseSide(a); err == nil {
			side = a
		} else {
			view = a
		}
	}
	filter, err := parseHeatmapFilter(side, view)
	if err != nil {
		return err
	}
	report.PrintHeatmap(sh.out, sh.s.Heatmap(filter))
	return nil
}

func (sh *captureShell) roster(args []string) {
	sides := []model.Side{model.SideA, model.SideB}
	if len(args) > 0 {
		if side, err := model.ParseSide(args[0]); err == nil {
			sides = []model.Side{side}
		}
	}
	var players []model.Player
	for _, side := range sides {
		players = append(players, sh.s.Players(side)...)
	}
	report.PrintRoster(sh.out, players)
}

func lastN(events []model.Event, n int) []model.Event {
	if len(events) > n {
		return events[len(events)-n:]
	}
	return events
}

func orDashStr(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
