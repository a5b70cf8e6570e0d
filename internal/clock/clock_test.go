package clock

import (
	"errors"
	"testing"
	"time"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestStopwatch(t *testing.T) {
	fn := &fakeNow{t: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)}
	sw := New(0).WithNow(fn.now)

	fn.advance(10 * time.Second)
	if sw.Elapsed() != 0 {
		t.Errorf("stopped clock moved: %d", sw.Elapsed())
	}

	sw.Start()
	fn.advance(125*time.Second + 400*time.Millisecond)
	if got := sw.Elapsed(); got != 125 {
		t.Errorf("elapsed: want 125, got %d", got)
	}
	if !sw.Running() {
		t.Error("expected running")
	}

	sw.Stop()
	fn.advance(time.Minute)
	if got := sw.Elapsed(); got != 125 {
		t.Errorf("elapsed while stopped: want 125, got %d", got)
	}

	sw.Start()
	fn.advance(5 * time.Second)
	if got := sw.Elapsed(); got != 130 {
		t.Errorf("elapsed after resume: want 130, got %d", got)
	}
}

func TestStopwatch_SetAndAdjust(t *testing.T) {
	fn := &fakeNow{t: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)}
	sw := New(90).WithNow(fn.now)
	if sw.Elapsed() != 90 {
		t.Fatalf("initial: want 90, got %d", sw.Elapsed())
	}

	sw.Start()
	fn.advance(10 * time.Second)
	sw.Set(1800)
	fn.advance(2 * time.Second)
	if got := sw.Elapsed(); got != 1802 {
		t.Errorf("after set: want 1802, got %d", got)
	}

	sw.Adjust(-60)
	if got := sw.Elapsed(); got != 1742 {
		t.Errorf("after adjust: want 1742, got %d", got)
	}
	sw.Adjust(-100000)
	if got := sw.Elapsed(); got != 0 {
		t.Errorf("adjust below zero: want 0, got %d", got)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"02:05", 125, true},
		{"62:05", 3725, true},
		{"0:00", 0, true},
		{"10:60", 0, false},
		{"abc", 0, false},
		{"1:2:3", 0, false},
		{"-1:00", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("ParseClock(%q): want ErrInvalidDuration, got %v", tc.in, err)
		}
	}
}
