package session

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/pable/go-hb-stats/internal/model"
	"github.com/pable/go-hb-stats/internal/possession"
)

// transition persists next and applies it locally; mu must be held.
func (s *Session) transition(ctx context.Context, next model.MatchStatus) error {
	if !s.match.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, s.match.Status, next)
	}
	if err := s.store.UpdateMatchStatus(ctx, s.match.ID, next, s.clock.Elapsed()); err != nil {
		return fmt.Errorf("store status: %w", err)
	}
	prev := s.match.Status
	s.match.Status = next
	s.logger.WithFields(log.Fields{"from": prev, "to": next}).Info("match status changed")
	return nil
}

// Start kicks the match off. initial may be unknown when nobody recorded
// who had the ball first.
func (s *Session) Start(ctx context.Context, initial model.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match.Status != model.StatusSetup {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, s.match.Status, model.StatusInProgress)
	}
	if initial != model.SideUnknown {
		if err := s.store.UpdateInitialPossession(ctx, s.match.ID, initial); err != nil {
			return fmt.Errorf("store initial possession: %w", err)
		}
	}
	if err := s.transition(ctx, model.StatusInProgress); err != nil {
		return err
	}
	s.match.InitialPossession = initial
	s.tracker = possession.Replay(initial, s.events.Events())
	s.clock.Start()
	return nil
}

// Pause stops the clock. Capture stays allowed while paused.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Stop()
	if err := s.transition(ctx, model.StatusPaused); err != nil {
		if s.match.Status == model.StatusInProgress {
			s.clock.Start()
		}
		return err
	}
	return nil
}

// Resume restarts the clock after a pause.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Status != model.StatusPaused {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, s.match.Status, model.StatusInProgress)
	}
	if err := s.transition(ctx, model.StatusInProgress); err != nil {
		return err
	}
	s.clock.Start()
	return nil
}

// Finish closes the match; no further capture or undo is possible.
func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.clock.Running()
	s.clock.Stop()
	if err := s.transition(ctx, model.StatusFinished); err != nil {
		if wasRunning {
			s.clock.Start()
		}
		return err
	}
	return nil
}

// SetDefense declares the formation side is playing from now on.
func (s *Session) SetDefense(ctx context.Context, side model.Side, d model.DefenseType) error {
	d, err := model.ParseDefense(string(d))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.UpdateDefense(ctx, s.match.ID, side, d); err != nil {
		return fmt.Errorf("store defense: %w", err)
	}
	s.match.SetDefense(side, d)
	return nil
}

// SetClock corrects the match time.
func (s *Session) SetClock(ctx context.Context, elapsed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Set(elapsed)
	return s.syncClock(ctx)
}

// Sync persists the current clock, e.g. before the operator leaves.
func (s *Session) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncClock(ctx)
}

func (s *Session) syncClock(ctx context.Context) error {
	elapsed := s.clock.Elapsed()
	if err := s.store.UpdateElapsed(ctx, s.match.ID, elapsed); err != nil {
		return fmt.Errorf("store clock: %w", err)
	}
	s.match.ElapsedSeconds = elapsed
	return nil
}

// LoadRoster adds players to one side. It is only allowed during setup and
// rejects numbers already present on that side.
func (s *Session) LoadRoster(ctx context.Context, side model.Side, players []model.Player) error {
	if side != model.SideA && side != model.SideB {
		return model.ErrInvalidSide
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Status != model.StatusSetup {
		return fmt.Errorf("%w: match is %s", ErrRosterLocked, s.match.Status)
	}

	batch := make([]model.Player, len(players))
	trial, _ := model.NewRoster(s.roster.All())
	for i, p := range players {
		p.MatchID = s.match.ID
		p.Side = side
		if p.Number < 1 || p.Number > 99 {
			return fmt.Errorf("player %q: shirt number %d out of range 1-99", p.Name, p.Number)
		}
		if err := trial.Add(p); err != nil {
			return err
		}
		batch[i] = p
	}

	if err := s.store.InsertPlayers(ctx, batch); err != nil {
		return fmt.Errorf("store roster: %w", err)
	}
	s.roster = trial
	s.logger.WithFields(log.Fields{"side": side, "players": len(batch)}).Info("roster loaded")
	return nil
}

// RemovePlayer drops one roster entry during setup.
func (s *Session) RemovePlayer(ctx context.Context, side model.Side, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Status != model.StatusSetup {
		return fmt.Errorf("%w: match is %s", ErrRosterLocked, s.match.Status)
	}
	if _, ok := s.roster.Player(side, number); !ok {
		return fmt.Errorf("side %s #%d: %w", side, number, model.ErrUnknownPlayer)
	}
	if err := s.store.DeletePlayer(ctx, s.match.ID, side, number); err != nil {
		return fmt.Errorf("store roster: %w", err)
	}
	s.roster.Remove(side, number)
	return nil
}
