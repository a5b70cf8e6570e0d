// Package session owns one live match: the committed event log, the running
// score, the possession tracker and the match clock. It is the only writer
// to the store while a match is being captured.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/pable/go-hb-stats/internal/aggregator"
	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/clock"
	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/possession"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrMatchNotLive  = errors.New("match is not in progress or paused")
	ErrRosterLocked  = errors.New("roster can only change during setup")
)

// Store is the persistence the session writes through.
type Store interface {
	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListPlayers(ctx context.Context, matchID string) ([]model.Player, error)
	ListEvents(ctx context.Context, matchID string) ([]model.Event, error)

	CreateEvent(ctx context.Context, e model.Event) error
	DeleteLastEvent(ctx context.Context, matchID string) (*model.Event, error)

	UpdateScore(ctx context.Context, id string, scoreA, scoreB int) error
	UpdateMatchStatus(ctx context.Context, id string, status model.MatchStatus, elapsed int) error
	UpdateInitialPossession(ctx context.Context, id string, side model.Side) error
	UpdateDefense(ctx context.Context, id string, side model.Side, d model.DefenseType) error
	UpdateElapsed(ctx context.Context, id string, elapsed int) error

	InsertPlayers(ctx context.Context, players []model.Player) error
	DeletePlayer(ctx context.Context, matchID string, side model.Side, number int) error
}

// Session serializes every mutation of one match behind a mutex.
type Session struct {
	mu      sync.Mutex
	store   Store
	match   model.Match
	roster  *model.Roster
	events  *EventLog
	tracker *possession.Tracker
	clock   *clock.Stopwatch
	logger  *log.Entry
}

// New builds a session from already loaded state. The score is rebuilt from
// the log and the possession tracker is replayed from the kick-off side.
func New(store Store, match model.Match, players []model.Player, events []model.Event) (*Session, error) {
	roster, err := model.NewRoster(players)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	logger := log.WithField("match", match.ID)

	a, b := aggregator.Score(events)
	if a != match.ScoreA || b != match.ScoreB {
		logger.WithFields(log.Fields{
			"stored": fmt.Sprintf("%d-%d", match.ScoreA, match.ScoreB),
			"log":    fmt.Sprintf("%d-%d", a, b),
		}).Warn("stored score disagrees with event log, using log")
		match.ScoreA, match.ScoreB = a, b
	}

	s := &Session{
		store:   store,
		match:   match,
		roster:  roster,
		events:  NewEventLog(events),
		tracker: possession.Replay(match.InitialPossession, events),
		clock:   clock.New(match.ElapsedSeconds),
		logger:  logger,
	}
	if match.Status == model.StatusInProgress {
		s.clock.Start()
	}
	return s, nil
}

// Load reads a match with its roster and log from the store.
func Load(ctx context.Context, store Store, matchID string) (*Session, error) {
	m, err := store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	players, err := store.ListPlayers(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	events, err := store.ListEvents(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return New(store, *m, players, events)
}

// Match returns a snapshot of the match header.
func (s *Session) Match() model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.match
	m.ElapsedSeconds = s.clock.Elapsed()
	return m
}

// Clock exposes the match stopwatch.
func (s *Session) Clock() *clock.Stopwatch { return s.clock }

// Elapsed is the current match time in seconds.
func (s *Session) Elapsed() int { return s.clock.Elapsed() }

func (s *Session) Player(side model.Side, number int) (model.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Player(side, number)
}

func (s *Session) Goalkeepers(side model.Side) []model.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Goalkeepers(side)
}

// Players returns one side's roster ordered by shirt number.
func (s *Session) Players(side model.Side) []model.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Side(side)
}

// DeclaredDefense returns the formation side currently plays.
func (s *Session) DeclaredDefense(side model.Side) model.DefenseType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Defense(side)
}

// Events returns a copy of the committed log.
func (s *Session) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.Events()
}

// Possession returns the current holder and per-side counters.
func (s *Session) Possession() (model.Side, map[model.Side]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Holder(), s.tracker.Counts()
}

// Commit appends e to the log and persists it. The local append and score
// change are rolled back if the store rejects the record.
func (s *Session) Commit(ctx context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.match.Status.Live() {
		return fmt.Errorf("%w: %s", ErrMatchNotLive, s.match.Status)
	}
	entry, ok := catalog.Lookup(e.Action)
	if !ok {
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if e.MatchID == "" {
		e.MatchID = s.match.ID
	}

	scorer := entry.Score.ScoringSide(e.Side)
	s.events.Append(e)
	s.match.AddScore(scorer, 1)

	if err := s.store.CreateEvent(ctx, e); err != nil {
		s.events.RemoveLast()
		s.match.AddScore(scorer, -1)
		return fmt.Errorf("store event: %w", err)
	}

	s.tracker.Apply(e.Action, e.Side)
	if scorer != model.SideUnknown {
		s.persistScore(ctx)
	}
	s.logger.WithFields(log.Fields{
		"event":  e.ID,
		"action": e.Action,
		"side":   e.Side,
		"player": e.Player,
		"time":   e.TimeFormatted(),
	}).Debug("event committed")
	return nil
}

// Undo removes the most recent record, reverting its score effect and
// replaying possession from the remaining log.
func (s *Session) Undo(ctx context.Context) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.match.Status.Live() {
		return model.Event{}, fmt.Errorf("%w: %s", ErrMatchNotLive, s.match.Status)
	}
	local, ok := s.events.Last()
	if !ok {
		return model.Event{}, ErrNothingToUndo
	}

	removed, err := s.store.DeleteLastEvent(ctx, s.match.ID)
	if err != nil {
		return model.Event{}, fmt.Errorf("store undo: %w", err)
	}
	if removed == nil {
		return model.Event{}, fmt.Errorf("%w: store log is empty", ErrNothingToUndo)
	}
	if removed.ID != local.ID {
		s.logger.WithFields(log.Fields{"local": local.ID, "store": removed.ID}).
			Warn("undo removed a different record than the local log head, reloading log")
		if err := s.reload(ctx); err != nil {
			return model.Event{}, err
		}
		return *removed, nil
	}

	s.events.RemoveLast()
	if entry, ok := catalog.Lookup(local.Action); ok {
		if scorer := entry.Score.ScoringSide(local.Side); scorer != model.SideUnknown {
			s.match.AddScore(scorer, -1)
			s.persistScore(ctx)
		}
	}
	s.tracker = possession.Replay(s.match.InitialPossession, s.events.Events())
	s.logger.WithField("event", local.ID).Debug("event undone")
	return local, nil
}

// reload replaces the local log with the store's and rebuilds the score and
// possession from it; mu must be held.
func (s *Session) reload(ctx context.Context) error {
	events, err := s.store.ListEvents(ctx, s.match.ID)
	if err != nil {
		return fmt.Errorf("reload events: %w", err)
	}
	s.events = NewEventLog(events)
	s.match.ScoreA, s.match.ScoreB = aggregator.Score(events)
	s.persistScore(ctx)
	s.tracker = possession.Replay(s.match.InitialPossession, events)
	return nil
}

// persistScore writes the running score; mu must be held. The score can
// always be rebuilt from the log, so a failure is only logged.
func (s *Session) persistScore(ctx context.Context) {
	if err := s.store.UpdateScore(ctx, s.match.ID, s.match.ScoreA, s.match.ScoreB); err != nil {
		s.logger.WithError(err).Warn("persist score")
	}
}

// Stats recomputes team and goalkeeper statistics from the log.
func (s *Session) Stats() (*model.MatchStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.match
	return aggregator.Compute(&m, s.roster, s.events.Events(), s.tracker.Counts())
}

// Heatmap recomputes the goal-zone heatmap from the log.
func (s *Session) Heatmap(filter model.HeatmapFilter) *model.Heatmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregator.Heatmap(s.events.Events(), filter)
}
