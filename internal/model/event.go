package model

import "time"

// ActionID identifies a catalog action.
type ActionID string

const (
	ActionGoal          ActionID = "GOAL"
	ActionGoal7m        ActionID = "GOAL_7M"
	ActionGoalFastBreak ActionID = "GOAL_FAST_BREAK"
	ActionMiss7m        ActionID = "MISS_7M"
	ActionSaved         ActionID = "SAVED"
	ActionWide          ActionID = "WIDE"
	ActionPost          ActionID = "POST"
	ActionBlocked       ActionID = "BLOCKED"
	ActionTurnover      ActionID = "TURNOVER"
	ActionRecovery      ActionID = "RECOVERY"
	ActionAssist        ActionID = "ASSIST"
	ActionKeeperSave    ActionID = "KEEPER_SAVE"
	ActionGoalConceded  ActionID = "GOAL_CONCEDED"
)

// Event is one committed, immutable play-by-play record.
type Event struct {
	ID      string
	MatchID string
	Elapsed int // seconds since kick-off
	Player  int // shirt number of the acting player
	Side    Side
	Action  ActionID
	Details Details

	CreatedAt time.Time
}

// TimeFormatted renders Elapsed as "mm:ss".
func (e Event) TimeFormatted() string { return FormatClock(e.Elapsed) }

func (e Event) GoalZone() GoalZone { return Flatten(e.Details).GoalZone }
func (e Event) CourtZone() CourtZone { return Flatten(e.Details).CourtZone }
func (e Event) Defense() DefenseType { return Flatten(e.Details).Defense }
func (e Event) Tags() []Tag { return Flatten(e.Details).Tags }
func (e Event) RivalGoalkeeper() int { return Flatten(e.Details).RivalGoalkeeper }
func (e Event) TurnoverKind() TurnoverType { return Flatten(e.Details).TurnoverKind }
func (e Event) RecoveryKind() RecoveryType { return Flatten(e.Details).RecoveryKind }

// HasTag reports whether the event carries tag t.
func (e Event) HasTag(t Tag) bool {
	for _, x := range e.Tags() {
		if x == t {
			return true
		}
	}
	return false
}

// ---- Details union ----

// Details is the closed set of per-action payloads. Each action carries
// exactly one variant, chosen by its catalog Shape.
type Details interface {
	shape() Shape
}

// Shape names a Details variant.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeShot
	ShapePenalty
	ShapeFastBreak
	ShapeTurnover
	ShapeRecovery
	ShapeKeeper
)

// ShotDetails: field goal, save-against, wide, post, blocked.
type ShotDetails struct {
	CourtZone       CourtZone
	GoalZone        GoalZone
	Defense         DefenseType
	Tags            []Tag
	RivalGoalkeeper int
}

// PenaltyDetails: 7 m goal or missed 7 m.
type PenaltyDetails struct {
	GoalZone        GoalZone
	RivalGoalkeeper int
}

// FastBreakDetails: length-of-court goal.
type FastBreakDetails struct {
	GoalZone        GoalZone
	Defense         DefenseType
	Tags            []Tag
	RivalGoalkeeper int
}

type TurnoverDetails struct {
	Kind      TurnoverType
	CourtZone CourtZone
	Defense   DefenseType
}

type RecoveryDetails struct {
	Kind RecoveryType
}

// KeeperDetails: a shot recorded from the goalkeeper's side of the ball.
type KeeperDetails struct {
	GoalZone  GoalZone
	CourtZone CourtZone
}

type NoDetails struct{}

func (ShotDetails) shape() Shape { return ShapeShot }
func (PenaltyDetails) shape() Shape { return ShapePenalty }
func (FastBreakDetails) shape() Shape { return ShapeFastBreak }
func (TurnoverDetails) shape() Shape { return ShapeTurnover }
func (RecoveryDetails) shape() Shape { return ShapeRecovery }
func (KeeperDetails) shape() Shape { return ShapeKeeper }
func (NoDetails) shape() Shape { return ShapeNone }

// ShapeOf returns the variant of d. A nil payload is ShapeNone.
func ShapeOf(d Details) Shape {
	if d == nil {
		return ShapeNone
	}
	return d.shape()
}

// DetailFields is the flat view of a Details value, used for storage, export
// and the commit request. Fields a variant does not carry stay zero.
type DetailFields struct {
	CourtZone       CourtZone
	GoalZone        GoalZone
	Defense         DefenseType
	Tags            []Tag
	RivalGoalkeeper int
	TurnoverKind    TurnoverType
	RecoveryKind    RecoveryType
}

// Flatten projects d onto DetailFields.
func Flatten(d Details) DetailFields {
	switch v := d.(type) {
	case ShotDetails:
		return DetailFields{CourtZone: v.CourtZone, GoalZone: v.GoalZone, Defense: v.Defense, Tags: v.Tags, RivalGoalkeeper: v.RivalGoalkeeper}
	case PenaltyDetails:
		return DetailFields{GoalZone: v.GoalZone, RivalGoalkeeper: v.RivalGoalkeeper}
	case FastBreakDetails:
		return DetailFields{GoalZone: v.GoalZone, Defense: v.Defense, Tags: v.Tags, RivalGoalkeeper: v.RivalGoalkeeper}
	case TurnoverDetails:
		return DetailFields{TurnoverKind: v.Kind, CourtZone: v.CourtZone, Defense: v.Defense}
	case RecoveryDetails:
		return DetailFields{RecoveryKind: v.Kind}
	case KeeperDetails:
		return DetailFields{GoalZone: v.GoalZone, CourtZone: v.CourtZone}
	}
	return DetailFields{}
}

// Build packs f into the variant named by s, dropping fields the variant
// does not carry.
func (f DetailFields) Build(s Shape) Details {
	switch s {
	case ShapeShot:
		return ShotDetails{CourtZone: f.CourtZone, GoalZone: f.GoalZone, Defense: f.Defense, Tags: f.Tags, RivalGoalkeeper: f.RivalGoalkeeper}
	case ShapePenalty:
		return PenaltyDetails{GoalZone: f.GoalZone, RivalGoalkeeper: f.RivalGoalkeeper}
	case ShapeFastBreak:
		return FastBreakDetails{GoalZone: f.GoalZone, Defense: f.Defense, Tags: f.Tags, RivalGoalkeeper: f.RivalGoalkeeper}
	case ShapeTurnover:
		return TurnoverDetails{Kind: f.TurnoverKind, CourtZone: f.CourtZone, Defense: f.Defense}
	case ShapeRecovery:
		return RecoveryDetails{Kind: f.RecoveryKind}
	case ShapeKeeper:
		return KeeperDetails{GoalZone: f.GoalZone, CourtZone: f.CourtZone}
	}
	return NoDetails{}
}
