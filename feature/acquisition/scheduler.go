package acquisition

import (
	"sync"
	"time"
)

// Scheduler arms a single-shot callback. While a shot is pending, further
// Arm calls are ignored: the deadline set by the first arm stands, so a
// sustained flood of events still flushes at window-elapsed rather than when
// input quiesces. This is deliberately not a reset-on-event debounce.
type Scheduler interface {
	// Arm schedules fn after d unless a shot is already pending. Reports
	// whether this call armed the timer.
	Arm(d time.Duration, fn func()) bool
	// Stop cancels a pending shot, if any.
	Stop()
}

// timerScheduler implements Scheduler on time.AfterFunc.
type timerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	armed bool
}

// NewScheduler creates a real-time single-shot scheduler.
func NewScheduler() Scheduler {
	return &timerScheduler{}
}

func (s *timerScheduler) Arm(d time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		return false
	}
	s.armed = true
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		s.armed = false
		s.mu.Unlock()
		fn()
	})
	return true
}

func (s *timerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed = false
}
