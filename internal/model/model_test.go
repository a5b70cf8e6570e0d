package model

import (
	"errors"
	"testing"
)

func TestParseSide(t *testing.T) {
	for _, v := range []string{"a", " A "} {
		if s, err := ParseSide(v); err != nil || s != SideA {
			t.Errorf("ParseSide(%q) = %v, %v", v, s, err)
		}
	}
	if _, err := ParseSide("C"); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("expected ErrInvalidSide, got %v", err)
	}
	if SideA.Opponent() != SideB || SideUnknown.Opponent() != SideUnknown {
		t.Error("Opponent")
	}
}

func TestParseEnums(t *testing.T) {
	if d, err := ParseDefense("mixed"); err != nil || d != DefenseMixed {
		t.Errorf("ParseDefense: %v, %v", d, err)
	}
	if _, err := ParseDefense("7:0"); !errors.Is(err, ErrInvalidDefense) {
		t.Errorf("expected ErrInvalidDefense, got %v", err)
	}
	if z, err := ParseCourtZone("lw"); err != nil || !z.IsWing() {
		t.Errorf("ParseCourtZone: %v, %v", z, err)
	}
	if _, err := ParseGoalZone(0); !errors.Is(err, ErrInvalidGoalZone) {
		t.Errorf("goal zone 0 should be rejected, got %v", err)
	}
	if _, err := ParseGoalZone(10); err == nil {
		t.Error("goal zone 10 should be rejected")
	}
	if k, err := ParseTurnoverType("3_seconds"); err != nil || k != TurnoverThreeSeconds {
		t.Errorf("ParseTurnoverType: %v, %v", k, err)
	}
	if _, err := ParseRecoveryType("block"); !errors.Is(err, ErrInvalidRecovery) {
		t.Errorf("expected ErrInvalidRecovery, got %v", err)
	}
}

func TestTags(t *testing.T) {
	tags := []Tag{TagPowerPlay, TagFastBreak}
	joined := JoinTags(tags)
	if joined != "PP|FB" {
		t.Errorf("JoinTags: %q", joined)
	}
	back := SplitTags(joined)
	if len(back) != 2 || back[0] != TagPowerPlay || back[1] != TagFastBreak {
		t.Errorf("SplitTags: %v", back)
	}
	if SplitTags("") != nil {
		t.Error("empty string should split to nil")
	}
	if JoinTags(nil) != "" {
		t.Error("nil tags should join to empty string")
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 125: "02:05", 3600: "60:00", -5: "00:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDetailsBuildDropsForeignFields(t *testing.T) {
	f := DetailFields{
		CourtZone: CourtPivot, GoalZone: 4, Defense: Defense60,
		Tags: []Tag{TagEqualStrength}, RivalGoalkeeper: 12, TurnoverKind: TurnoverSteps,
	}
	d := f.Build(ShapePenalty)
	if ShapeOf(d) != ShapePenalty {
		t.Fatalf("shape: %d", ShapeOf(d))
	}
	back := Flatten(d)
	if back.CourtZone != "" || back.Defense != "" || back.Tags != nil || back.TurnoverKind != "" {
		t.Errorf("penalty kept foreign fields: %+v", back)
	}
	if back.GoalZone != 4 || back.RivalGoalkeeper != 12 {
		t.Errorf("penalty lost its own fields: %+v", back)
	}
	if ShapeOf(nil) != ShapeNone {
		t.Error("nil details should be ShapeNone")
	}
}

func TestMatchScoreAndTransition(t *testing.T) {
	m := Match{Status: StatusSetup}
	m.AddScore(SideA, 1)
	m.AddScore(SideB, -1)
	if m.Score(SideA) != 1 || m.Score(SideB) != 0 {
		t.Errorf("score: %d-%d", m.ScoreA, m.ScoreB)
	}
	if err := m.Transition(StatusPaused); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SETUP -> PAUSED should fail, got %v", err)
	}
	for _, next := range []MatchStatus{StatusInProgress, StatusPaused, StatusInProgress, StatusFinished} {
		if err := m.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if m.Transition(StatusInProgress) == nil {
		t.Error("FINISHED is terminal")
	}
}

func TestParsePositionAndHand(t *testing.T) {
	if p, err := ParsePosition(" lw "); err != nil || p != PositionLeftWing {
		t.Errorf("ParsePosition: %q %v", p, err)
	}
	if p, err := ParsePosition(""); err != nil || p != "" {
		t.Errorf("empty position: %q %v", p, err)
	}
	if _, err := ParsePosition("9M"); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("9M is a court zone, not a position: %v", err)
	}
	if h, err := ParseHand("l"); err != nil || h != HandLeft {
		t.Errorf("ParseHand: %q %v", h, err)
	}
	if _, err := ParseHand("both"); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
}

func TestRoster(t *testing.T) {
	r, err := NewRoster([]Player{
		{Side: SideA, Number: 7, Name: "x"},
		{Side: SideA, Number: 1, Name: "gk", IsGoalkeeper: true},
		{Side: SideB, Number: 7, Name: "y"},
	})
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	if err := r.Add(Player{Side: SideA, Number: 7}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("expected ErrDuplicatePlayer, got %v", err)
	}
	if err := r.Add(Player{Number: 3}); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("expected ErrInvalidSide, got %v", err)
	}
	if err := r.Add(Player{Side: SideA, Number: 3, Position: "XX"}); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if err := r.Add(Player{Side: SideA, Number: 3, Hand: "B"}); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
	if a := r.Side(SideA); len(a) != 2 || a[0].Number != 1 {
		t.Errorf("side A order: %+v", a)
	}
	if gk := r.Goalkeepers(SideA); len(gk) != 1 || gk[0].Number != 1 {
		t.Errorf("goalkeepers: %+v", gk)
	}
	r.Remove(SideB, 7)
	if _, ok := r.Player(SideB, 7); ok {
		t.Error("player should be removed")
	}
	if len(r.All()) != 2 {
		t.Errorf("All: %d", len(r.All()))
	}
}

func TestRoundPct(t *testing.T) {
	cases := []struct{ num, den, want int }{
		{0, 0, 0}, {2, 3, 67}, {1, 3, 33}, {1, 2, 50}, {3, 3, 100},
	}
	for _, c := range cases {
		if got := RoundPct(c.num, c.den); got != c.want {
			t.Errorf("RoundPct(%d,%d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}
