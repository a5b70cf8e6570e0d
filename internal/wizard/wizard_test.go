package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

type fakeSource struct {
	roster  *model.Roster
	defense map[model.Side]model.DefenseType
}

func (f *fakeSource) Player(side model.Side, n int) (model.Player, bool) { return f.roster.Player(side, n) }
func (f *fakeSource) Goalkeepers(side model.Side) []model.Player { return f.roster.Goalkeepers(side) }
func (f *fakeSource) DeclaredDefense(side model.Side) model.DefenseType { return f.defense[side] }

type fixedClock int

func (c fixedClock) Elapsed() int { return int(c) }

type recorder struct {
	events []model.Event
	err    error
}

func (r *recorder) Commit(_ context.Context, e model.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

// newTestWizard: A has keeper #1 and #7; B has keeper #1 and #9.
func newTestWizard(t *testing.T) (*Wizard, *fakeSource, *recorder) {
	t.Helper()
	r, err := model.NewRoster([]model.Player{
		{Side: model.SideA, Number: 1, Name: "Keeper A", IsGoalkeeper: true},
		{Side: model.SideA, Number: 7, Name: "Wing A"},
		{Side: model.SideB, Number: 1, Name: "Keeper B", IsGoalkeeper: true},
		{Side: model.SideB, Number: 9, Name: "Pivot B"},
	})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	src := &fakeSource{roster: r, defense: map[model.Side]model.DefenseType{model.SideB: model.Defense51}}
	rec := &recorder{}
	return New("m1", src, fixedClock(125), rec), src, rec
}

func TestGoalScenario(t *testing.T) {
	ctx := context.Background()
	w, _, rec := newTestWizard(t)

	if err := w.SelectPlayer(model.SideA, 7); err != nil {
		t.Fatalf("SelectPlayer: %v", err)
	}
	if w.State() != StateActionSelection {
		t.Fatalf("state: want ACTION_SELECTION, got %s", w.State())
	}
	if ev, err := w.SelectAction(ctx, model.ActionGoal); err != nil || ev != nil {
		t.Fatalf("SelectAction: ev=%v err=%v", ev, err)
	}
	if got := w.Fields().Defense; got != model.Defense51 {
		t.Errorf("defense prefill: want 5:1, got %q", got)
	}
	if w.CanConfirm() {
		t.Error("should not be confirmable before zones are set")
	}
	must(t, w.SetGoalZone(5))
	must(t, w.SetCourtZone(model.CourtCentre))
	must(t, w.SetRivalGoalkeeper(1))
	if !w.CanConfirm() {
		t.Fatalf("expected confirmable, missing %v", w.Missing())
	}

	e, err := w.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if w.State() != StateIdle {
		t.Errorf("state after confirm: want IDLE, got %s", w.State())
	}
	if len(rec.events) != 1 {
		t.Fatalf("committed: want 1, got %d", len(rec.events))
	}
	if e.ID == "" || e.MatchID != "m1" {
		t.Errorf("identity not set: %+v", e)
	}
	if e.Elapsed != 125 || e.TimeFormatted() != "02:05" {
		t.Errorf("time: %d %s", e.Elapsed, e.TimeFormatted())
	}
	if e.Player != 7 || e.Side != model.SideA || e.Action != model.ActionGoal {
		t.Errorf("unexpected record: %+v", e)
	}
	if e.GoalZone() != 5 || e.CourtZone() != model.CourtCentre || e.RivalGoalkeeper() != 1 {
		t.Errorf("details: %+v", e.Details)
	}
	if model.ShapeOf(e.Details) != model.ShapeShot {
		t.Errorf("shape: want shot, got %d", model.ShapeOf(e.Details))
	}
}

func TestTurnoverWithoutKindBlocked(t *testing.T) {
	ctx := context.Background()
	w, _, rec := newTestWizard(t)
	must(t, w.SelectPlayer(model.SideB, 9))
	if _, err := w.SelectAction(ctx, model.ActionTurnover); err != nil {
		t.Fatalf("SelectAction: %v", err)
	}
	if w.CanConfirm() {
		t.Error("turnover without kind should not be confirmable")
	}

	_, err := w.Confirm(ctx)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != catalog.FieldTurnoverKind {
		t.Errorf("missing: %v", verr.Missing)
	}
	if len(rec.events) != 0 {
		t.Error("nothing should reach the committer")
	}
	if w.State() != StateDetails {
		t.Errorf("state: want DETAILS, got %s", w.State())
	}

	must(t, w.SetTurnoverKind("bad_pass"))
	e, err := w.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if e.TurnoverKind() != model.TurnoverBadPass {
		t.Errorf("kind: %q", e.TurnoverKind())
	}
}

func TestKeeperMenu(t *testing.T) {
	ctx := context.Background()
	w, _, rec := newTestWizard(t)
	must(t, w.SelectPlayer(model.SideA, 1))

	for _, e := range w.Menu() {
		if !e.KeeperMenu {
			t.Errorf("keeper menu offers %s", e.ID)
		}
	}
	if _, err := w.SelectAction(ctx, model.ActionGoal); !errors.Is(err, ErrActionNotOffered) {
		t.Errorf("GOAL for keeper: want ErrActionNotOffered, got %v", err)
	}
	if _, err := w.SelectAction(ctx, model.ActionKeeperSave); err != nil {
		t.Fatalf("SelectAction: %v", err)
	}
	if err := w.SetRivalGoalkeeper(1); !errors.Is(err, ErrFieldNotOffered) {
		t.Errorf("rival gk on keeper save: want ErrFieldNotOffered, got %v", err)
	}
	must(t, w.SetGoalZone(3))
	e, err := w.Confirm(ctx)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if e.Action != model.ActionKeeperSave || e.GoalZone() != 3 || len(rec.events) != 1 {
		t.Errorf("unexpected record: %+v", e)
	}
}

func TestAssistCommitsImmediately(t *testing.T) {
	w, _, rec := newTestWizard(t)
	must(t, w.SelectPlayer(model.SideA, 7))
	e, err := w.SelectAction(context.Background(), model.ActionAssist)
	if err != nil {
		t.Fatalf("SelectAction: %v", err)
	}
	if e == nil || e.Action != model.ActionAssist {
		t.Fatalf("expected committed assist, got %v", e)
	}
	if w.State() != StateIdle || len(rec.events) != 1 {
		t.Errorf("state=%s committed=%d", w.State(), len(rec.events))
	}
}

func TestSelectPlayer(t *testing.T) {
	w, _, _ := newTestWizard(t)
	if err := w.SelectPlayer(model.SideA, 99); !errors.Is(err, ErrPlayerNotInRoster) {
		t.Errorf("unknown player: want ErrPlayerNotInRoster, got %v", err)
	}
	if w.State() != StateIdle {
		t.Errorf("state: want IDLE, got %s", w.State())
	}

	must(t, w.SelectPlayer(model.SideA, 7))
	if _, err := w.SelectAction(context.Background(), model.ActionGoal); err != nil {
		t.Fatal(err)
	}
	must(t, w.SetGoalZone(4))

	// Switching player, even to the other side, drops the action and fields.
	must(t, w.SelectPlayer(model.SideB, 9))
	p, _ := w.Player()
	if p.Side != model.SideB || p.Number != 9 || w.State() != StateActionSelection {
		t.Errorf("unexpected selection: %+v state=%s", p, w.State())
	}
	if w.Fields().GoalZone != 0 {
		t.Error("fields should be cleared on player switch")
	}
}

func TestBack(t *testing.T) {
	w, _, _ := newTestWizard(t)
	w.Back()
	if w.State() != StateIdle {
		t.Fatal("back from IDLE should be a no-op")
	}

	must(t, w.SelectPlayer(model.SideA, 7))
	if _, err := w.SelectAction(context.Background(), model.ActionSaved); err != nil {
		t.Fatal(err)
	}
	must(t, w.SetGoalZone(2))

	w.Back()
	if w.State() != StateActionSelection {
		t.Fatalf("state: want ACTION_SELECTION, got %s", w.State())
	}
	if _, ok := w.Player(); !ok {
		t.Error("player should be kept")
	}
	if w.Fields().GoalZone != 0 {
		t.Error("fields should be discarded")
	}

	w.Back()
	if w.State() != StateIdle || w.Menu() != nil {
		t.Errorf("state: want IDLE with no menu, got %s", w.State())
	}
}

func TestSetters_Validation(t *testing.T) {
	w, _, _ := newTestWizard(t)
	if err := w.SetGoalZone(3); !errors.Is(err, ErrWrongState) {
		t.Errorf("setter while idle: want ErrWrongState, got %v", err)
	}

	must(t, w.SelectPlayer(model.SideA, 7))
	if _, err := w.SelectAction(context.Background(), model.ActionGoal); err != nil {
		t.Fatal(err)
	}
	if err := w.SetGoalZone(10); !errors.Is(err, model.ErrInvalidGoalZone) {
		t.Errorf("zone 10: want ErrInvalidGoalZone, got %v", err)
	}
	if err := w.SetRivalGoalkeeper(9); !errors.Is(err, ErrGoalkeeperNotInRoster) {
		t.Errorf("outfield rival: want ErrGoalkeeperNotInRoster, got %v", err)
	}
	if err := w.SetTurnoverKind(model.TurnoverSteps); !errors.Is(err, ErrFieldNotOffered) {
		t.Errorf("turnover kind on goal: want ErrFieldNotOffered, got %v", err)
	}

	must(t, w.ToggleTag(model.TagPowerPlay))
	must(t, w.ToggleTag(model.TagFastBreak))
	must(t, w.ToggleTag(model.TagPowerPlay))
	if tags := w.Fields().Tags; len(tags) != 1 || tags[0] != model.TagFastBreak {
		t.Errorf("tags: %v", tags)
	}
	must(t, w.Clear(catalog.FieldTags))
	if len(w.Fields().Tags) != 0 {
		t.Error("tags should be cleared")
	}
}

func TestRivalGoalkeeperOptionalWithoutKeepers(t *testing.T) {
	w, src, _ := newTestWizard(t)
	src.roster.Remove(model.SideB, 1)

	must(t, w.SelectPlayer(model.SideA, 7))
	if _, err := w.SelectAction(context.Background(), model.ActionWide); err != nil {
		t.Fatal(err)
	}
	must(t, w.SetCourtZone(model.CourtLeftWing))
	if !w.CanConfirm() {
		t.Errorf("rival goalkeeper should be optional, missing %v", w.Missing())
	}
}

func TestConfirm_PlayerRemovedResets(t *testing.T) {
	ctx := context.Background()
	w, src, rec := newTestWizard(t)
	must(t, w.SelectPlayer(model.SideB, 9))
	if _, err := w.SelectAction(ctx, model.ActionRecovery); err != nil {
		t.Fatal(err)
	}
	must(t, w.SetRecoveryKind(model.RecoverySteal))

	src.roster.Remove(model.SideB, 9)
	if _, err := w.Confirm(ctx); !errors.Is(err, ErrPlayerNotInRoster) {
		t.Fatalf("want ErrPlayerNotInRoster, got %v", err)
	}
	if w.State() != StateIdle || len(rec.events) != 0 {
		t.Errorf("state=%s committed=%d", w.State(), len(rec.events))
	}
}

func TestConfirm_CommitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	w, _, rec := newTestWizard(t)
	rec.err = errors.New("store down")

	must(t, w.SelectPlayer(model.SideA, 7))
	if _, err := w.SelectAction(ctx, model.ActionGoal7m); err != nil {
		t.Fatal(err)
	}
	must(t, w.SetGoalZone(9))
	must(t, w.SetRivalGoalkeeper(1))

	if _, err := w.Confirm(ctx); err == nil {
		t.Fatal("expected commit error")
	}
	if w.State() != StateDetails || w.Fields().GoalZone != 9 {
		t.Errorf("draft lost: state=%s fields=%+v", w.State(), w.Fields())
	}

	rec.err = nil
	if _, err := w.Confirm(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(rec.events) != 1 {
		t.Errorf("committed: want 1, got %d", len(rec.events))
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func fillField(w *Wizard, f catalog.Field) error {
	switch f {
	case catalog.FieldDefense:
		return w.SetDefense(model.Defense60)
	case catalog.FieldCourtZone:
		return w.SetCourtZone(model.CourtLeftBack)
	case catalog.FieldGoalZone:
		return w.SetGoalZone(3)
	case catalog.FieldTags:
		return w.ToggleTag(model.TagEqualStrength)
	case catalog.FieldRivalGoalkeeper:
		return w.SetRivalGoalkeeper(1)
	case catalog.FieldTurnoverKind:
		return w.SetTurnoverKind(model.TurnoverSteps)
	case catalog.FieldRecoveryKind:
		return w.SetRecoveryKind(model.RecoverySteal)
	}
	return nil
}

func TestEveryRequiredFieldBlocksConfirm(t *testing.T) {
	ctx := context.Background()
	for _, player := range []int{7, 1} {
		for _, entry := range catalog.Menu(player == 1) {
			if !entry.RequiresDetails {
				continue
			}
			for _, missing := range entry.Required.List() {
				t.Run(fmt.Sprintf("#%d/%s/%s", player, entry.ID, missing), func(t *testing.T) {
					w, _, rec := newTestWizard(t)
					must(t, w.SelectPlayer(model.SideA, player))
					if _, err := w.SelectAction(ctx, entry.ID); err != nil {
						t.Fatalf("SelectAction: %v", err)
					}
					for _, f := range entry.Required.List() {
						must(t, fillField(w, f))
					}
					if !w.CanConfirm() {
						t.Fatalf("all fields filled but missing %v", w.Missing())
					}
					must(t, w.Clear(missing))

					if w.CanConfirm() {
						t.Errorf("confirmable without %s", missing)
					}
					_, err := w.Confirm(ctx)
					var verr *ValidationError
					if !errors.As(err, &verr) {
						t.Fatalf("want ValidationError, got %v", err)
					}
					if len(verr.Missing) != 1 || verr.Missing[0] != missing {
						t.Errorf("missing: want [%s], got %v", missing, verr.Missing)
					}
					if len(rec.events) != 0 {
						t.Error("nothing should reach the committer")
					}
				})
			}
		}
	}
}
