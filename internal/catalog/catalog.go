// Package catalog is the static table of loggable actions: what each one
// means for score and possession, and which detail fields it needs before it
// can be committed.
package catalog

import (
	"strings"

	"github.com/pable/go-hb-stats/internal/model"
)

// Field is one detail input the capture wizard can collect.
type Field uint8

const (
	FieldDefense Field = 1 << iota
	FieldCourtZone
	FieldGoalZone
	FieldTags
	FieldRivalGoalkeeper
	FieldTurnoverKind
	FieldRecoveryKind
)

// AllFields lists every field in display order.
var AllFields = []Field{
	FieldDefense, FieldCourtZone, FieldGoalZone, FieldTags,
	FieldRivalGoalkeeper, FieldTurnoverKind, FieldRecoveryKind,
}

func (f Field) String() string {
	switch f {
	case FieldDefense:
		return "defense"
	case FieldCourtZone:
		return "court-zone"
	case FieldGoalZone:
		return "goal-zone"
	case FieldTags:
		return "tags"
	case FieldRivalGoalkeeper:
		return "rival-goalkeeper"
	case FieldTurnoverKind:
		return "turnover-type"
	case FieldRecoveryKind:
		return "recovery-type"
	}
	return "?"
}

// Fields is a set of Field bits.
type Fields uint8

func (s Fields) Has(f Field) bool { return s&Fields(f) != 0 }

// List returns the members of s in display order.
func (s Fields) List() []Field {
	var out []Field
	for _, f := range AllFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func fields(fs ...Field) Fields {
	var s Fields
	for _, f := range fs {
		s |= Fields(f)
	}
	return s
}

// ScoreEffect is what committing an action does to the scoreboard.
type ScoreEffect int

const (
	ScoreNone ScoreEffect = iota
	ScoreOwn
	ScoreOpponent
)

// ScoringSide returns the side whose score moves when actor commits an
// action with this effect.
func (e ScoreEffect) ScoringSide(actor model.Side) model.Side {
	switch e {
	case ScoreOwn:
		return actor
	case ScoreOpponent:
		return actor.Opponent()
	}
	return model.SideUnknown
}

// PossessionEffect is how an action moves the ball between teams.
type PossessionEffect int

const (
	PossessionNone PossessionEffect = iota
	PossessionToActor
	PossessionToOpponent
)

// Class groups actions for the aggregators.
type Class int

const (
	ClassInfo Class = iota
	ClassGoal
	ClassSaved
	ClassMissed
	ClassBlocked
	ClassTurnover
	ClassRecovery
)

// Perspective says who the acting player is relative to a shot.
type Perspective int

const (
	// Shooter: the acting player took the shot (or the action is not a shot).
	Shooter Perspective = iota
	// Keeper: the acting player is the goalkeeper who faced the shot.
	Keeper
)

// Entry is one row of the catalog.
type Entry struct {
	ID    model.ActionID
	Label string

	Class       Class
	Perspective Perspective
	Shape       model.Shape

	RequiresDetails bool
	Required        Fields
	Offered         Fields

	Score      ScoreEffect
	Possession PossessionEffect

	FieldMenu  bool // offered to outfield players
	KeeperMenu bool // offered to goalkeepers
}

// IsShot reports whether the action is a shot outcome.
func (e Entry) IsShot() bool {
	switch e.Class {
	case ClassGoal, ClassSaved, ClassMissed, ClassBlocked:
		return true
	}
	return false
}

// IsGoal reports whether the action records a goal, whichever side logged it.
func (e Entry) IsGoal() bool { return e.Class == ClassGoal }

// ShootingSide returns the side that took the shot when actor logged it.
func (e Entry) ShootingSide(actor model.Side) model.Side {
	if e.Perspective == Keeper {
		return actor.Opponent()
	}
	return actor
}

// shotFields are collected for every shooter-perspective shot.
var shotFields = fields(FieldDefense, FieldCourtZone, FieldGoalZone, FieldTags, FieldRivalGoalkeeper)

var entries = []Entry{
	{
		ID: model.ActionGoal, Label: "Goal",
		Class: ClassGoal, Shape: model.ShapeShot,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone, FieldCourtZone, FieldRivalGoalkeeper),
		Offered:         shotFields,
		Score:           ScoreOwn, Possession: PossessionToActor,
		FieldMenu: true,
	},
	{
		ID: model.ActionGoal7m, Label: "Goal 7m",
		Class: ClassGoal, Shape: model.ShapePenalty,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone, FieldRivalGoalkeeper),
		Offered:         fields(FieldGoalZone, FieldRivalGoalkeeper),
		Score:           ScoreOwn, Possession: PossessionToActor,
		FieldMenu: true,
	},
	{
		ID: model.ActionGoalFastBreak, Label: "Goal fast break",
		Class: ClassGoal, Shape: model.ShapeFastBreak,
		RequiresDetails: true,
		Required:        fields(FieldDefense, FieldRivalGoalkeeper),
		Offered:         fields(FieldDefense, FieldGoalZone, FieldTags, FieldRivalGoalkeeper),
		Score:           ScoreOwn, Possession: PossessionToActor,
		FieldMenu: true, KeeperMenu: true,
	},
	{
		ID: model.ActionMiss7m, Label: "Missed 7m",
		Class: ClassSaved, Shape: model.ShapePenalty,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone, FieldRivalGoalkeeper),
		Offered:         fields(FieldGoalZone, FieldRivalGoalkeeper),
		FieldMenu:       true,
	},
	{
		ID: model.ActionSaved, Label: "Saved",
		Class: ClassSaved, Shape: model.ShapeShot,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone, FieldCourtZone, FieldRivalGoalkeeper),
		Offered:         shotFields,
		Possession:      PossessionToOpponent,
		FieldMenu:       true,
	},
	{
		ID: model.ActionWide, Label: "Wide",
		Class: ClassMissed, Shape: model.ShapeShot,
		RequiresDetails: true,
		Required:        fields(FieldCourtZone, FieldRivalGoalkeeper),
		Offered:         shotFields,
		FieldMenu:       true, KeeperMenu: true,
	},
	{
		ID: model.ActionPost, Label: "Post",
		Class: ClassMissed, Shape: model.ShapeShot,
		RequiresDetails: true,
		Required:        fields(FieldCourtZone, FieldRivalGoalkeeper),
		Offered:         shotFields,
		FieldMenu:       true,
	},
	{
		ID: model.ActionBlocked, Label: "Blocked",
		Class: ClassBlocked, Shape: model.ShapeShot,
		RequiresDetails: true,
		Required:        fields(FieldCourtZone, FieldRivalGoalkeeper),
		Offered:         shotFields,
		FieldMenu:       true,
	},
	{
		ID: model.ActionTurnover, Label: "Turnover",
		Class: ClassTurnover, Shape: model.ShapeTurnover,
		RequiresDetails: true,
		Required:        fields(FieldTurnoverKind),
		Offered:         fields(FieldTurnoverKind, FieldCourtZone, FieldDefense),
		Possession:      PossessionToOpponent,
		FieldMenu:       true, KeeperMenu: true,
	},
	{
		ID: model.ActionRecovery, Label: "Recovery",
		Class: ClassRecovery, Shape: model.ShapeRecovery,
		RequiresDetails: true,
		Required:        fields(FieldRecoveryKind),
		Offered:         fields(FieldRecoveryKind),
		Possession:      PossessionToOpponent,
		FieldMenu:       true,
	},
	{
		ID: model.ActionAssist, Label: "Assist",
		Class: ClassInfo, Shape: model.ShapeNone,
		FieldMenu: true,
	},
	{
		ID: model.ActionKeeperSave, Label: "Save",
		Class: ClassSaved, Perspective: Keeper, Shape: model.ShapeKeeper,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone),
		Offered:         fields(FieldGoalZone, FieldCourtZone),
		Possession:      PossessionToActor,
		KeeperMenu:      true,
	},
	{
		ID: model.ActionGoalConceded, Label: "Goal conceded",
		Class: ClassGoal, Perspective: Keeper, Shape: model.ShapeKeeper,
		RequiresDetails: true,
		Required:        fields(FieldGoalZone),
		Offered:         fields(FieldGoalZone, FieldCourtZone),
		Score:           ScoreOpponent, Possession: PossessionToOpponent,
		KeeperMenu: true,
	},
}

var byID = func() map[model.ActionID]Entry {
	m := make(map[model.ActionID]Entry, len(entries))
	for _, e := range entries {
		m[e.ID] = e
	}
	return m
}()

// Lookup returns the catalog entry for id.
func Lookup(id model.ActionID) (Entry, bool) {
	e, ok := byID[id]
	return e, ok
}

// Parse resolves a user-typed action identifier, case-insensitively.
func Parse(v string) (Entry, bool) {
	return Lookup(model.ActionID(strings.ToUpper(strings.TrimSpace(v))))
}

// All returns every catalog entry in display order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Menu returns the actions offered to a player, branching on the goalkeeper
// flag.
func Menu(isGoalkeeper bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if (isGoalkeeper && e.KeeperMenu) || (!isGoalkeeper && e.FieldMenu) {
			out = append(out, e)
		}
	}
	return out
}
