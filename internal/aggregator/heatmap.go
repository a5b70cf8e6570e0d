package aggregator

import (
	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

// Heatmap buckets shot events carrying a goal zone into the 9-cell goal grid.
// Only the intensity scalar is computed here; how it is drawn is up to the
// caller.
func Heatmap(events []model.Event, filter model.HeatmapFilter) *model.Heatmap {
	if filter.View == "" {
		filter.View = model.ViewAll
	}
	h := &model.Heatmap{Filter: filter}
	for i := range h.Zones {
		h.Zones[i].Zone = model.GoalZone(i + 1)
	}

	for _, e := range events {
		entry, ok := catalog.Lookup(e.Action)
		if !ok || !entry.IsShot() {
			continue
		}
		zone := e.GoalZone()
		if !zone.Valid() {
			continue
		}
		if filter.Shooter != model.SideUnknown && entry.ShootingSide(e.Side) != filter.Shooter {
			continue
		}
		if !matchesView(e, filter.View) {
			continue
		}

		z := &h.Zones[zone-1]
		z.Shots++
		h.TotalShots++
		switch entry.Class {
		case catalog.ClassGoal:
			z.Goals++
		case catalog.ClassSaved:
			z.Saves++
		}
	}

	maxGoals := 1
	for _, z := range h.Zones {
		maxGoals = max(maxGoals, z.Goals)
	}
	for i := range h.Zones {
		h.Zones[i].Intensity = clamp01(float64(h.Zones[i].Goals) / float64(maxGoals))
	}
	return h
}

func matchesView(e model.Event, view model.HeatmapView) bool {
	switch view {
	case model.ViewWing:
		return e.CourtZone().IsWing()
	case model.ViewSevenMeter:
		return e.Action == model.ActionGoal7m || e.Action == model.ActionMiss7m
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
