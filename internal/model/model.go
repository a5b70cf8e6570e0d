package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSide      = errors.New("invalid team side")
	ErrInvalidGoalZone  = errors.New("goal zone must be between 1 and 9")
	ErrInvalidCourtZone = errors.New("invalid court zone")
	ErrInvalidDefense   = errors.New("invalid defense type")
	ErrInvalidTag       = errors.New("invalid situational tag")
	ErrInvalidTurnover  = errors.New("invalid turnover type")
	ErrInvalidRecovery  = errors.New("invalid recovery type")
	ErrInvalidPosition  = errors.New("invalid player position")
	ErrInvalidHand      = errors.New("invalid hand")
)

// Side identifies one of the two teams in a match.
type Side string

const (
	SideUnknown Side = ""
	SideA       Side = "A"
	SideB       Side = "B"
)

// Opponent returns the other side. The unknown side has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideUnknown
	}
}

func (s Side) String() string {
	if s == SideUnknown {
		return "?"
	}
	return string(s)
}

// ParseSide accepts "A"/"B" in any case.
func ParseSide(v string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "A":
		return SideA, nil
	case "B":
		return SideB, nil
	}
	return SideUnknown, fmt.Errorf("%w: %q", ErrInvalidSide, v)
}

// ---- Court and goal geometry ----

// CourtZone is where a shot or loss originated.
type CourtZone string

const (
	CourtLeftWing  CourtZone = "LW"
	CourtLeftBack  CourtZone = "LB"
	CourtCentre    CourtZone = "CB"
	CourtRightBack CourtZone = "RB"
	CourtRightWing CourtZone = "RW"
	CourtPivot     CourtZone = "PV"
	CourtLongRange CourtZone = "9M"
)

var CourtZones = []CourtZone{
	CourtLeftWing, CourtLeftBack, CourtCentre, CourtRightBack, CourtRightWing, CourtPivot, CourtLongRange,
}

// IsWing reports whether the zone is one of the two wings.
func (z CourtZone) IsWing() bool {
	return z == CourtLeftWing || z == CourtRightWing
}

func ParseCourtZone(v string) (CourtZone, error) {
	z := CourtZone(strings.ToUpper(strings.TrimSpace(v)))
	for _, c := range CourtZones {
		if c == z {
			return z, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCourtZone, v)
}

// GoalZone is a cell of the 3x3 goal grid, numbered 1-9 row-major from the
// top-left corner as seen by the shooter. Zero means "not recorded".
type GoalZone int

const NumGoalZones = 9

func (z GoalZone) Valid() bool { return z >= 1 && z <= NumGoalZones }

func ParseGoalZone(n int) (GoalZone, error) {
	z := GoalZone(n)
	if !z.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGoalZone, n)
	}
	return z, nil
}

// ---- Tactical context ----

// DefenseType is a declared defensive formation.
type DefenseType string

const (
	Defense60    DefenseType = "6:0"
	Defense51    DefenseType = "5:1"
	Defense321   DefenseType = "3:2:1"
	Defense42    DefenseType = "4:2"
	DefenseMixed DefenseType = "MIXED"
	DefensePress DefenseType = "PRESS"
	DefenseOther DefenseType = "OTHER"
)

var Defenses = []DefenseType{
	Defense60, Defense51, Defense321, Defense42, DefenseMixed, DefensePress, DefenseOther,
}

func ParseDefense(v string) (DefenseType, error) {
	d := DefenseType(strings.ToUpper(strings.TrimSpace(v)))
	for _, c := range Defenses {
		if c == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDefense, v)
}

// Tag is a situational context flag attached to an event.
type Tag string

const (
	TagEqualStrength Tag = "EQ"
	TagPowerPlay     Tag = "PP"
	TagShorthanded   Tag = "SH"
	TagFastBreak     Tag = "FB"
)

var Tags = []Tag{TagEqualStrength, TagPowerPlay, TagShorthanded, TagFastBreak}

func ParseTag(v string) (Tag, error) {
	t := Tag(strings.ToUpper(strings.TrimSpace(v)))
	for _, c := range Tags {
		if c == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTag, v)
}

// JoinTags renders tags the way they are stored and exported: "PP|FB".
func JoinTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}

// SplitTags is the inverse of JoinTags.
func SplitTags(s string) []Tag {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]Tag, len(parts))
	for i, p := range parts {
		out[i] = Tag(p)
	}
	return out
}

// TurnoverType classifies a loss of the ball.
type TurnoverType string

const (
	TurnoverSteps         TurnoverType = "STEPS"
	TurnoverDouble        TurnoverType = "DOUBLE"
	TurnoverOffensiveFoul TurnoverType = "OFFENSIVE_FOUL"
	TurnoverBadPass       TurnoverType = "BAD_PASS"
	TurnoverBadCatch      TurnoverType = "BAD_CATCH"
	TurnoverArea          TurnoverType = "AREA"
	TurnoverThreeSeconds  TurnoverType = "3_SECONDS"
)

var TurnoverTypes = []TurnoverType{
	TurnoverSteps, TurnoverDouble, TurnoverOffensiveFoul, TurnoverBadPass,
	TurnoverBadCatch, TurnoverArea, TurnoverThreeSeconds,
}

func ParseTurnoverType(v string) (TurnoverType, error) {
	t := TurnoverType(strings.ToUpper(strings.TrimSpace(v)))
	for _, c := range TurnoverTypes {
		if c == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTurnover, v)
}

// RecoveryType classifies how the ball was won back.
type RecoveryType string

const (
	RecoverySteal         RecoveryType = "STEAL"
	RecoveryInterception  RecoveryType = "INTERCEPTION"
	RecoveryOffensiveFoul RecoveryType = "OFFENSIVE_FOUL"
)

var RecoveryTypes = []RecoveryType{RecoverySteal, RecoveryInterception, RecoveryOffensiveFoul}

func ParseRecoveryType(v string) (RecoveryType, error) {
	t := RecoveryType(strings.ToUpper(strings.TrimSpace(v)))
	for _, c := range RecoveryTypes {
		if c == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecovery, v)
}

var Positions = []Position{
	PositionGoalkeeper, PositionLeftWing, PositionRightWing, PositionLeftBack,
	PositionRightBack, PositionCentre, PositionPivot,
}

// ParsePosition accepts an empty value, since the position is optional.
func ParsePosition(v string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(v)))
	if p == "" {
		return "", nil
	}
	for _, c := range Positions {
		if c == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, v)
}

// ParseHand accepts "R", "L" or an empty value.
func ParseHand(v string) (Hand, error) {
	switch h := Hand(strings.ToUpper(strings.TrimSpace(v))); h {
	case "", HandRight, HandLeft:
		return h, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHand, v)
}

// FormatClock renders elapsed seconds as "mm:ss". Minutes are not wrapped.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
