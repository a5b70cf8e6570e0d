package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/pable/go-hb-stats/internal/model"
)

func sampleMatch() model.Match {
	return model.Match{
		ID: "m1", TeamAName: "Lions", TeamBName: "Bears",
		DefenseA: model.Defense60, ScoreA: 1, ElapsedSeconds: 200,
		InitialPossession: model.SideA, Status: model.StatusFinished,
		CreatedAt: time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

func sampleEvents() []model.Event {
	at := time.Date(2025, 3, 1, 18, 5, 0, 0, time.UTC)
	return []model.Event{
		{ID: "e1", MatchID: "m1", Elapsed: 125, Player: 7, Side: model.SideA, Action: model.ActionGoal,
			Details: model.ShotDetails{CourtZone: model.CourtLeftWing, GoalZone: 3, Defense: model.Defense51,
				Tags: []model.Tag{model.TagPowerPlay, model.TagFastBreak}, RivalGoalkeeper: 12}, CreatedAt: at},
		{ID: "e2", MatchID: "m1", Elapsed: 150, Player: 9, Side: model.SideB, Action: model.ActionTurnover,
			Details: model.TurnoverDetails{Kind: model.TurnoverBadPass, CourtZone: model.CourtCentre}, CreatedAt: at},
		{ID: "e3", MatchID: "m1", Elapsed: 152, Player: 7, Side: model.SideA, Action: model.ActionRecovery,
			Details: model.RecoveryDetails{Kind: model.RecoverySteal}, CreatedAt: at},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleMatch(), sampleEvents()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "time" || rows[0][8] != "context" {
		t.Errorf("header: %v", rows[0])
	}

	goal := rows[1]
	want := []string{"02:05", "Lions", "7", "GOAL", "", "5:1", "LW", "3", "PP|FB"}
	for i := range want {
		if goal[i] != want[i] {
			t.Errorf("goal col %s: want %q, got %q", CSVHeader[i], want[i], goal[i])
		}
	}
	if rows[2][1] != "Bears" || rows[2][4] != "BAD_PASS" || rows[2][7] != "" {
		t.Errorf("turnover row: %v", rows[2])
	}
	if rows[3][4] != "STEAL" {
		t.Errorf("recovery row: %v", rows[3])
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	players := []model.Player{
		{MatchID: "m1", Side: model.SideA, Number: 7, Name: "Wing", Position: model.PositionLeftWing, Hand: model.HandLeft},
		{MatchID: "m1", Side: model.SideB, Number: 12, Name: "Keeper", IsGoalkeeper: true},
	}
	a := NewArchive(sampleMatch(), players, sampleEvents())

	var buf bytes.Buffer
	if err := WriteArchive(&buf, a); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	back, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	m, ps, es, err := back.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if m.ID != "m1" || m.TeamBName != "Bears" || m.Status != model.StatusFinished || m.DefenseA != model.Defense60 {
		t.Errorf("match: %+v", m)
	}
	if !m.CreatedAt.Equal(sampleMatch().CreatedAt) {
		t.Errorf("created_at: %v", m.CreatedAt)
	}
	if len(ps) != 2 || !ps[1].IsGoalkeeper || ps[0].Hand != model.HandLeft {
		t.Errorf("players: %+v", ps)
	}
	if len(es) != 3 {
		t.Fatalf("events: %d", len(es))
	}
	if model.ShapeOf(es[0].Details) != model.ShapeShot || es[0].RivalGoalkeeper() != 12 || !es[0].HasTag(model.TagFastBreak) {
		t.Errorf("goal details: %+v", es[0].Details)
	}
	if es[1].TurnoverKind() != model.TurnoverBadPass || es[1].CourtZone() != model.CourtCentre {
		t.Errorf("turnover details: %+v", es[1].Details)
	}
	if es[2].RecoveryKind() != model.RecoverySteal {
		t.Errorf("recovery details: %+v", es[2].Details)
	}
}

func TestReadArchive_Rejects(t *testing.T) {
	if _, err := ReadArchive(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Error("expected error for garbage input")
	}

	a := NewArchive(sampleMatch(), nil, nil)
	a.Version = 99
	var buf bytes.Buffer
	if err := WriteArchive(&buf, a); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if _, err := ReadArchive(&buf); err == nil {
		t.Error("expected version error")
	}
}

func TestUnpack_UnknownAction(t *testing.T) {
	a := NewArchive(sampleMatch(), nil, sampleEvents()[:1])
	a.Events[0].Action = "DUNK"
	if _, _, _, err := a.Unpack(); err == nil {
		t.Error("expected unknown action error")
	}
}
