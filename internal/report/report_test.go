package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

func TestPrintTeamTable(t *testing.T) {
	stats := &model.MatchStats{
		Teams: map[model.Side]*model.TeamStats{
			model.SideA: {Side: model.SideA, Name: "Lions", Goals: 2, SavedShots: 1},
			model.SideB: {Side: model.SideB, Name: "Bears"},
		},
	}
	var buf bytes.Buffer
	PrintTeamTable(&buf, stats)
	out := buf.String()
	for _, want := range []string{"Lions", "Bears", "67%", "EFF%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Lions") > strings.Index(out, "Bears") {
		t.Error("side A should be printed first")
	}
}

func TestPrintGoalkeeperTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintGoalkeeperTable(&buf, nil)
	if !strings.Contains(buf.String(), "No goalkeeper") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintHeatmap(t *testing.T) {
	h := &model.Heatmap{Filter: model.HeatmapFilter{Shooter: model.SideA, View: model.ViewWing}, TotalShots: 3}
	for i := range h.Zones {
		h.Zones[i].Zone = model.GoalZone(i + 1)
	}
	h.Zones[4] = model.ZoneStats{Zone: 5, Shots: 3, Goals: 2, Saves: 1, Intensity: 1}

	var buf bytes.Buffer
	PrintHeatmap(&buf, h)
	out := buf.String()
	for _, want := range []string{"side A", "view WING", "3 shots", "2G/1S", "67%", "██"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShade(t *testing.T) {
	if shade(0) != shades[0] {
		t.Error("zero intensity should be blank")
	}
	if shade(0.01) != shades[1] {
		t.Error("any goal should show at least the lightest shade")
	}
	if shade(1) != shades[len(shades)-1] {
		t.Error("hottest zone should be fully shaded")
	}
}

func TestPrintEventFeed(t *testing.T) {
	m := model.Match{TeamAName: "Lions", TeamBName: "Bears"}
	events := []model.Event{
		{Elapsed: 125, Player: 7, Side: model.SideA, Action: model.ActionGoal,
			Details: model.ShotDetails{CourtZone: model.CourtPivot, GoalZone: 5, RivalGoalkeeper: 1}},
	}
	var buf bytes.Buffer
	PrintEventFeed(&buf, m, events)
	out := buf.String()
	for _, want := range []string{"02:05", "Lions", "Goal", "court=PV goal=5 gk=#1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMatchListAndRoster(t *testing.T) {
	var buf bytes.Buffer
	PrintMatchList(&buf, []model.Match{{
		ID: "0123456789abcdef", TeamAName: "Lions", TeamBName: "Bears",
		ScoreA: 3, ScoreB: 1, Status: model.StatusPaused, CreatedAt: time.Now(),
	}})
	PrintRoster(&buf, []model.Player{{Side: model.SideB, Number: 12, Name: "Keeper", IsGoalkeeper: true}})
	PrintActionMenu(&buf, catalog.Menu(true))
	out := buf.String()
	for _, want := range []string{"0123456789ab", "3-1", "PAUSED", "Keeper", "KEEPER_SAVE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abc") {
		t.Error("match id should be shortened")
	}
}
