// Package possession tracks which team holds the ball and how many times
// each team gained it.
package possession

import (
	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

// Tracker is a three-state machine (A, B, unknown) with one counter per side.
// Counters only grow, and only when the holder actually changes.
type Tracker struct {
	holder model.Side
	counts map[model.Side]int
}

// New returns a tracker with no known holder.
func New() *Tracker {
	return &Tracker{counts: make(map[model.Side]int, 2)}
}

// Holder returns the side currently in possession.
func (t *Tracker) Holder() model.Side { return t.holder }

// Count returns how many possessions side has had.
func (t *Tracker) Count(side model.Side) int { return t.counts[side] }

// Counts returns a copy of the per-side counters.
func (t *Tracker) Counts() map[model.Side]int {
	return map[model.Side]int{model.SideA: t.counts[model.SideA], model.SideB: t.counts[model.SideB]}
}

// Start seeds the kick-off possession. It counts as that side's first
// possession.
func (t *Tracker) Start(side model.Side) {
	t.transfer(side)
}

// Apply feeds one committed action. It reports whether the holder changed.
func (t *Tracker) Apply(action model.ActionID, actor model.Side) bool {
	entry, ok := catalog.Lookup(action)
	if !ok {
		return false
	}
	var next model.Side
	switch entry.Possession {
	case catalog.PossessionToActor:
		next = actor
	case catalog.PossessionToOpponent:
		next = actor.Opponent()
	default:
		return false
	}
	return t.transfer(next)
}

func (t *Tracker) transfer(next model.Side) bool {
	if next == model.SideUnknown || next == t.holder {
		return false
	}
	t.holder = next
	t.counts[next]++
	return true
}

// Replay rebuilds a tracker from the kick-off possession and an event log.
func Replay(initial model.Side, events []model.Event) *Tracker {
	t := New()
	t.Start(initial)
	for _, e := range events {
		t.Apply(e.Action, e.Side)
	}
	return t
}
