package testutils

import (
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/payment"
)

// ManualScheduler is a payment.Scheduler driven by Advance instead of the
// wall clock. Due tasks run synchronously on the caller's goroutine.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	done    bool
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) payment.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTask{s: s, at: s.now + d, seq: s.seq, f: f}
	s.tasks = append(s.tasks, t)

	return t
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.done || t.stopped {
		return false
	}

	t.stopped = true
	return true
}

// Advance moves the clock forward by d, running every task that falls due
// in order, including tasks scheduled by the tasks it runs.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d

	for {
		next := s.nextDueLocked(target)
		if next == nil {
			break
		}

		s.now = next.at
		next.done = true
		s.mu.Unlock()

		next.f()

		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTask {
	var next *manualTask

	for _, t := range s.tasks {
		if t.done || t.stopped || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}

	return next
}

// Pending counts tasks that are scheduled and not yet run or stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			n++
		}
	}

	return n
}

func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}
