package model

// ---- Aggregated metrics ----

// TeamStats are derived from the event log for one side.
type TeamStats struct {
	Side Side
	Name string

	Goals      int
	Goals7m    int
	SavedShots int // shots stopped by the rival goalkeeper
	WidePost   int
	Blocked    int
	Missed7m   int
	Assists    int

	Turnovers  int
	Recoveries int

	GoalsEqual       int
	GoalsPowerPlay   int
	GoalsShorthanded int

	Possessions int
}

// Shots is the shooting-efficiency denominator: goals, saved shots and
// wide/post misses.
func (s *TeamStats) Shots() int {
	return s.Goals + s.SavedShots + s.WidePost
}

// Efficiency is goals over shots as a rounded percentage, 0 with no shots.
func (s *TeamStats) Efficiency() int {
	return RoundPct(s.Goals, s.Shots())
}

// GoalkeeperStats are attributed to one goalkeeper from shots they faced.
type GoalkeeperStats struct {
	Side          Side
	Number        int
	Name          string
	Saves         int
	GoalsConceded int
}

func (g *GoalkeeperStats) ShotsFaced() int {
	return g.Saves + g.GoalsConceded
}

// SavePct is saves over shots faced as a rounded percentage, 0 with no shots.
func (g *GoalkeeperStats) SavePct() int {
	return RoundPct(g.Saves, g.ShotsFaced())
}

// MatchStats bundles everything the statistics aggregator produces.
type MatchStats struct {
	MatchID     string
	Teams       map[Side]*TeamStats
	Goalkeepers []GoalkeeperStats
	Events      int
}

// HeatmapView narrows the heatmap to a subset of shots.
type HeatmapView string

const (
	ViewAll        HeatmapView = "ALL"
	ViewWing       HeatmapView = "WING"
	ViewSevenMeter HeatmapView = "7M"
)

// HeatmapFilter selects which shot events feed the heatmap. An unknown
// Shooter means both sides.
type HeatmapFilter struct {
	Shooter Side
	View    HeatmapView
}

// ZoneStats is one cell of the goal grid.
type ZoneStats struct {
	Zone      GoalZone
	Shots     int
	Goals     int
	Saves     int
	Intensity float64 // goals relative to the hottest zone, in [0,1]
}

// Ratio is goals over goals+saves, 0 when neither happened.
func (z *ZoneStats) Ratio() float64 {
	if z.Goals+z.Saves == 0 {
		return 0
	}
	return float64(z.Goals) / float64(z.Goals+z.Saves)
}

// Heatmap is the per-zone breakdown of filtered shots.
type Heatmap struct {
	Filter     HeatmapFilter
	Zones      [NumGoalZones]ZoneStats
	TotalShots int
}

// Zone returns the cell for z (1-9).
func (h *Heatmap) Zone(z GoalZone) ZoneStats {
	return h.Zones[z-1]
}

// RoundPct returns round(100*num/den), or 0 when den is 0.
func RoundPct(num, den int) int {
	if den == 0 {
		return 0
	}
	return (200*num + den) / (2 * den)
}
