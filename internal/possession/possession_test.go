package possession

import (
	"testing"

	"github.com/pable/go-hb-stats/internal/model"
)

func TestApply_TransferRules(t *testing.T) {
	cases := []struct {
		name   string
		action model.ActionID
		actor  model.Side
		want   model.Side
	}{
		{"goal keeps ball with scorer", model.ActionGoal, model.SideA, model.SideA},
		{"7m goal", model.ActionGoal7m, model.SideB, model.SideB},
		{"fast break goal", model.ActionGoalFastBreak, model.SideA, model.SideA},
		{"turnover gives ball away", model.ActionTurnover, model.SideA, model.SideB},
		{"save-against gives ball away", model.ActionSaved, model.SideB, model.SideA},
		{"recovery", model.ActionRecovery, model.SideA, model.SideB},
		{"keeper save", model.ActionKeeperSave, model.SideA, model.SideA},
		{"goal conceded", model.ActionGoalConceded, model.SideA, model.SideB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := New()
			if !tr.Apply(tc.action, tc.actor) {
				t.Fatal("expected a transition from unknown holder")
			}
			if tr.Holder() != tc.want {
				t.Errorf("holder: want %s, got %s", tc.want, tr.Holder())
			}
			if tr.Count(tc.want) != 1 {
				t.Errorf("count: want 1, got %d", tr.Count(tc.want))
			}
		})
	}
}

func TestApply_NeutralActions(t *testing.T) {
	tr := New()
	tr.Start(model.SideA)
	for _, a := range []model.ActionID{model.ActionWide, model.ActionPost, model.ActionBlocked, model.ActionMiss7m, model.ActionAssist} {
		if tr.Apply(a, model.SideB) {
			t.Errorf("%s: expected no possession change", a)
		}
	}
	if tr.Holder() != model.SideA || tr.Count(model.SideA) != 1 || tr.Count(model.SideB) != 0 {
		t.Errorf("unexpected state: holder=%s counts=%v", tr.Holder(), tr.Counts())
	}
}

func TestApply_SameHolderDoesNotDoubleCount(t *testing.T) {
	tr := New()
	tr.Apply(model.ActionTurnover, model.SideA) // -> B
	if tr.Apply(model.ActionTurnover, model.SideA) {
		t.Error("second identical turnover should be a no-op")
	}
	if got := tr.Count(model.SideB); got != 1 {
		t.Errorf("B possessions: want 1, got %d", got)
	}
	tr.Apply(model.ActionGoal, model.SideB) // already B
	if got := tr.Count(model.SideB); got != 1 {
		t.Errorf("B possessions after goal by holder: want 1, got %d", got)
	}
}

func TestApply_UnknownActionIgnored(t *testing.T) {
	tr := New()
	if tr.Apply("SHOT", model.SideA) {
		t.Error("unknown action should not move possession")
	}
	if tr.Holder() != model.SideUnknown {
		t.Errorf("holder: want unknown, got %s", tr.Holder())
	}
}

func TestReplay(t *testing.T) {
	events := []model.Event{
		{Side: model.SideA, Action: model.ActionTurnover}, // -> B
		{Side: model.SideB, Action: model.ActionSaved},    // -> A
		{Side: model.SideA, Action: model.ActionGoal},     // stays A
		{Side: model.SideA, Action: model.ActionTurnover}, // -> B
	}
	tr := Replay(model.SideA, events)
	if tr.Holder() != model.SideB {
		t.Errorf("holder: want B, got %s", tr.Holder())
	}
	if tr.Count(model.SideA) != 2 || tr.Count(model.SideB) != 2 {
		t.Errorf("counts: want A=2 B=2, got %v", tr.Counts())
	}
}
