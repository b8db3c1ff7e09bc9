// Package clock provides the wall-clock collaborators injected into the attendance core.
package clock

import (
	"sync"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
)

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a clock reporting times in loc (time.Local when nil).
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

func (s *System) Now() time.Time { return time.Now().In(s.loc) }

func (s *System) Today() string { return s.Now().Format(domain.DateLayout) }

// Fixed is a settable clock for tests and replays.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Today() string { return f.Now().Format(domain.DateLayout) }

// Set moves the clock to now.
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
