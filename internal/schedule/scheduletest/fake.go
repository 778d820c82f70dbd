// Package scheduletest provides a manually advanced scheduler.
package scheduletest

import (
	"sync"
	"time"

	"ordertrack/internal/schedule"
)

type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	fake    *Fake
	at      time.Duration
	seq     int
	fn      func()
	done    bool
	stopped bool
}

func New() *Fake {
	return &Fake{}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{fake: f, at: f.now + d, seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.stopped = true
	return true
}

// Now is the elapsed fake time since creation.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward and runs due callbacks in deadline order on
// the calling goroutine. During a callback Now reports its deadline.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d

	for {
		next := f.nextDue(target)
		if next == nil {
			break
		}
		next.done = true
		f.now = next.at
		f.mu.Unlock()
		next.fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// Pending counts timers that have neither fired nor been stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (f *Fake) nextDue(target time.Duration) *fakeTimer {
	var next *fakeTimer
	for _, t := range f.timers {
		if t.done || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}
