// Package schedule abstracts delayed callbacks so debounce and long-press
// timers can be cancelled by key and driven by a manual clock in tests.
package schedule

import "time"

type Timer interface {
	// Stop reports whether the callback was prevented from running.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// System schedules on the runtime timer heap. Callbacks run on their own
// goroutine; wrap with Serialized to bring them back to the event loop.
func System() Scheduler {
	return systemScheduler{}
}

type serialized struct {
	base Scheduler
	post func(func()) bool
}

// Serialized delivers every callback through post instead of running it on
// the timer goroutine.
func Serialized(base Scheduler, post func(func()) bool) Scheduler {
	return &serialized{base: base, post: post}
}

func (s *serialized) AfterFunc(d time.Duration, f func()) Timer {
	return s.base.AfterFunc(d, func() {
		s.post(f)
	})
}
