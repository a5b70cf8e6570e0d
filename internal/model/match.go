package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid match status transition")
	ErrDuplicatePlayer   = errors.New("duplicate shirt number")
	ErrUnknownPlayer     = errors.New("unknown player")
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusSetup      MatchStatus = "SETUP"
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusPaused     MatchStatus = "PAUSED"
	StatusFinished   MatchStatus = "FINISHED"
)

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s MatchStatus) CanTransition(next MatchStatus) bool {
	switch s {
	case StatusSetup:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusPaused || next == StatusFinished
	case StatusPaused:
		return next == StatusInProgress || next == StatusFinished
	}
	return false
}

// Live reports whether events may be captured in this state.
func (s MatchStatus) Live() bool {
	return s == StatusInProgress || s == StatusPaused
}

// Match is one fixture between team A and team B.
type Match struct {
	ID        string
	TeamAName string
	TeamBName string
	DefenseA  DefenseType
	DefenseB  DefenseType
	ScoreA    int
	ScoreB    int

	ElapsedSeconds    int
	InitialPossession Side
	Status            MatchStatus
	CreatedAt         time.Time
}

// TeamName returns the display name of the given side.
func (m *Match) TeamName(side Side) string {
	switch side {
	case SideA:
		return m.TeamAName
	case SideB:
		return m.TeamBName
	}
	return ""
}

// Defense returns the formation currently declared by side.
func (m *Match) Defense(side Side) DefenseType {
	switch side {
	case SideA:
		return m.DefenseA
	case SideB:
		return m.DefenseB
	}
	return ""
}

// SetDefense updates the formation declared by side.
func (m *Match) SetDefense(side Side, d DefenseType) {
	switch side {
	case SideA:
		m.DefenseA = d
	case SideB:
		m.DefenseB = d
	}
}

// Score returns the running score of side.
func (m *Match) Score(side Side) int {
	switch side {
	case SideA:
		return m.ScoreA
	case SideB:
		return m.ScoreB
	}
	return 0
}

// AddScore adjusts the score of side by delta, never going below zero.
func (m *Match) AddScore(side Side, delta int) {
	switch side {
	case SideA:
		m.ScoreA = max(m.ScoreA+delta, 0)
	case SideB:
		m.ScoreB = max(m.ScoreB+delta, 0)
	}
}

// Transition moves the match to next or returns ErrInvalidTransition.
func (m *Match) Transition(next MatchStatus) error {
	if !m.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, next)
	}
	m.Status = next
	return nil
}

// Position is an optional field position of a player.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionLeftWing   Position = "LW"
	PositionRightWing  Position = "RW"
	PositionLeftBack   Position = "LB"
	PositionRightBack  Position = "RB"
	PositionCentre     Position = "CB"
	PositionPivot      Position = "PV"
)

// Hand is a player's dominant hand.
type Hand string

const (
	HandRight Hand = "R"
	HandLeft  Hand = "L"
)

// Player belongs to exactly one side of one match.
type Player struct {
	MatchID      string
	Side         Side
	Number       int
	Name         string
	IsGoalkeeper bool
	Position     Position // optional
	Hand         Hand     // optional
}

// Roster holds both sides' players for one match.
type Roster struct {
	players map[Side]map[int]Player
}

// NewRoster builds a roster from a flat player list. Duplicate
// (side, number) pairs are rejected.
func NewRoster(players []Player) (*Roster, error) {
	r := &Roster{players: map[Side]map[int]Player{SideA: {}, SideB: {}}}
	for _, p := range players {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add inserts p into the roster.
func (r *Roster) Add(p Player) error {
	if p.Side != SideA && p.Side != SideB {
		return fmt.Errorf("player #%d: %w", p.Number, ErrInvalidSide)
	}
	if _, err := ParsePosition(string(p.Position)); err != nil {
		return fmt.Errorf("player #%d: %w", p.Number, err)
	}
	if _, err := ParseHand(string(p.Hand)); err != nil {
		return fmt.Errorf("player #%d: %w", p.Number, err)
	}
	if _, dup := r.players[p.Side][p.Number]; dup {
		return fmt.Errorf("%w: side %s #%d", ErrDuplicatePlayer, p.Side, p.Number)
	}
	r.players[p.Side][p.Number] = p
	return nil
}

// Remove deletes the player; it is a no-op if the player is absent.
func (r *Roster) Remove(side Side, number int) {
	delete(r.players[side], number)
}

// Player looks up a player by side and shirt number.
func (r *Roster) Player(side Side, number int) (Player, bool) {
	p, ok := r.players[side][number]
	return p, ok
}

// Side returns the players of one side ordered by shirt number.
func (r *Roster) Side(side Side) []Player {
	out := make([]Player, 0, len(r.players[side]))
	for _, p := range r.players[side] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Goalkeepers returns the goalkeepers of one side ordered by shirt number.
func (r *Roster) Goalkeepers(side Side) []Player {
	var out []Player
	for _, p := range r.Side(side) {
		if p.IsGoalkeeper {
			out = append(out, p)
		}
	}
	return out
}

// All returns every player, side A first.
func (r *Roster) All() []Player {
	return append(r.Side(SideA), r.Side(SideB)...)
}
