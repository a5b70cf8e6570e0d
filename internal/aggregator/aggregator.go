package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

// Compute derives team and goalkeeper statistics from a match's event log.
// It is pure: the same inputs always give the same MatchStats, and nothing
// passed in is modified. roster may be nil, in which case goalkeeper names
// are left empty. possessions holds the per-side counters of the possession
// tracker; a nil map reports zero possessions.
func Compute(match *model.Match, roster *model.Roster, events []model.Event, possessions map[model.Side]int) (*model.MatchStats, error) {
	if match == nil {
		return nil, fmt.Errorf("nil Match")
	}

	out := &model.MatchStats{
		MatchID: match.ID,
		Teams: map[model.Side]*model.TeamStats{
			model.SideA: {Side: model.SideA, Name: match.TeamAName, Possessions: possessions[model.SideA]},
			model.SideB: {Side: model.SideB, Name: match.TeamBName, Possessions: possessions[model.SideB]},
		},
		Events: len(events),
	}

	// ---- Pass 1: team counters, keyed by the side that took the shot. ----

	for _, e := range events {
		entry, ok := catalog.Lookup(e.Action)
		if !ok {
			return nil, fmt.Errorf("event %s: unknown action %q", e.ID, e.Action)
		}
		ts := out.Teams[entry.ShootingSide(e.Side)]
		if ts == nil {
			return nil, fmt.Errorf("event %s: invalid side %q", e.ID, e.Side)
		}

		switch e.Action {
		case model.ActionGoal, model.ActionGoal7m, model.ActionGoalFastBreak, model.ActionGoalConceded:
			ts.Goals++
			if e.Action == model.ActionGoal7m {
				ts.Goals7m++
			}
			// A goal counts in every situation it is tagged with.
			if e.HasTag(model.TagEqualStrength) || len(e.Tags()) == 0 {
				ts.GoalsEqual++
			}
			if e.HasTag(model.TagPowerPlay) {
				ts.GoalsPowerPlay++
			}
			if e.HasTag(model.TagShorthanded) {
				ts.GoalsShorthanded++
			}
		case model.ActionSaved, model.ActionKeeperSave:
			ts.SavedShots++
		case model.ActionWide, model.ActionPost:
			ts.WidePost++
		case model.ActionBlocked:
			ts.Blocked++
		case model.ActionMiss7m:
			ts.Missed7m++
		case model.ActionAssist:
			ts.Assists++
		case model.ActionTurnover:
			ts.Turnovers++
		case model.ActionRecovery:
			ts.Recoveries++
		}
	}

	// ---- Pass 2: goalkeeper attribution. ----

	type gkKey struct {
		side   model.Side
		number int
	}
	keepers := make(map[gkKey]*model.GoalkeeperStats)
	keeper := func(k gkKey) *model.GoalkeeperStats {
		gk, ok := keepers[k]
		if !ok {
			gk = &model.GoalkeeperStats{Side: k.side, Number: k.number}
			if roster != nil {
				if p, found := roster.Player(k.side, k.number); found {
					gk.Name = p.Name
				}
			}
			keepers[k] = gk
		}
		return gk
	}

	for _, e := range events {
		entry, _ := catalog.Lookup(e.Action)
		var k gkKey
		switch entry.Perspective {
		case catalog.Keeper:
			k = gkKey{e.Side, e.Player}
		default:
			if e.RivalGoalkeeper() == 0 {
				continue
			}
			k = gkKey{e.Side.Opponent(), e.RivalGoalkeeper()}
		}

		switch e.Action {
		case model.ActionSaved, model.ActionMiss7m, model.ActionKeeperSave:
			keeper(k).Saves++
		case model.ActionGoal, model.ActionGoal7m, model.ActionGoalFastBreak, model.ActionGoalConceded:
			keeper(k).GoalsConceded++
		}
	}

	for _, gk := range keepers {
		if gk.ShotsFaced() == 0 {
			continue
		}
		out.Goalkeepers = append(out.Goalkeepers, *gk)
	}
	sort.Slice(out.Goalkeepers, func(i, j int) bool {
		a, b := out.Goalkeepers[i], out.Goalkeepers[j]
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		return a.Number < b.Number
	})

	return out, nil
}

// Score replays the log to the scoreboard it implies.
func Score(events []model.Event) (scoreA, scoreB int) {
	for _, e := range events {
		entry, ok := catalog.Lookup(e.Action)
		if !ok {
			continue
		}
		switch entry.Score.ScoringSide(e.Side) {
		case model.SideA:
			scoreA++
		case model.SideB:
			scoreB++
		}
	}
	return
}
