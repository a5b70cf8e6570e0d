package session

import "github.com/pable/go-hb-stats/internal/model"

// EventLog is the in-memory, append-only read model of one match. Only the
// last record can be removed.
type EventLog struct {
	events []model.Event
}

// NewEventLog seeds a log with already committed records, oldest first.
func NewEventLog(events []model.Event) *EventLog {
	return &EventLog{events: append([]model.Event(nil), events...)}
}

func (l *EventLog) Append(e model.Event) {
	l.events = append(l.events, e)
}

// RemoveLast drops and returns the newest record.
func (l *EventLog) RemoveLast() (model.Event, bool) {
	if len(l.events) == 0 {
		return model.Event{}, false
	}
	e := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	return e, true
}

// Last returns the newest record without removing it.
func (l *EventLog) Last() (model.Event, bool) {
	if len(l.events) == 0 {
		return model.Event{}, false
	}
	return l.events[len(l.events)-1], true
}

// Events returns a copy of the log in commit order.
func (l *EventLog) Events() []model.Event {
	return append([]model.Event(nil), l.events...)
}

func (l *EventLog) Len() int { return len(l.events) }
