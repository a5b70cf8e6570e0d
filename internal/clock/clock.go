// Package clock is the match stopwatch read at commit time.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrInvalidDuration = errors.New("invalid clock duration string")

// ParseClock converts "MM:SS" to whole seconds. Minutes are unbounded.
func ParseClock(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, v)
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, v)
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, v)
	}
	return mins*60 + secs, nil
}

// Stopwatch counts match time upwards while running. Reads are safe from any
// goroutine.
type Stopwatch struct {
	mu      sync.Mutex
	base    time.Duration // accumulated before the current run
	started time.Time     // zero when stopped
	now     func() time.Time
}

// New returns a stopped stopwatch showing elapsed seconds.
func New(elapsed int) *Stopwatch {
	return &Stopwatch{base: time.Duration(elapsed) * time.Second, now: time.Now}
}

// WithNow replaces the time source; used by tests.
func (s *Stopwatch) WithNow(now func() time.Time) *Stopwatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Start resumes counting. Starting a running stopwatch is a no-op.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		s.started = s.now()
	}
}

// Stop freezes the current time. Stopping a stopped stopwatch is a no-op.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.IsZero() {
		s.base += s.now().Sub(s.started)
		s.started = time.Time{}
	}
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.started.IsZero()
}

// Elapsed returns whole seconds since kick-off.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.base
	if !s.started.IsZero() {
		d += s.now().Sub(s.started)
	}
	return int(d / time.Second)
}

// Set overwrites the shown time, keeping the running state.
func (s *Stopwatch) Set(elapsed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = time.Duration(max(elapsed, 0)) * time.Second
	if !s.started.IsZero() {
		s.started = s.now()
	}
}

// Adjust moves the shown time by delta seconds, never below zero.
func (s *Stopwatch) Adjust(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = max(s.base+time.Duration(delta)*time.Second, -s.running())
}

// running returns the duration of the current run; mu must be held.
func (s *Stopwatch) running() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return s.now().Sub(s.started)
}
