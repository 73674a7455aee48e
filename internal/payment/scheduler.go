package payment

import "time"

// Task is a scheduled function that can be cancelled before it runs.
type Task interface {
	// Stop reports whether the call prevented the task from running.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

// TimerScheduler schedules on the runtime timers.
func TimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
