package engine

import (
	"time"

	"github.com/pitchplay/pitchplay/log"
)

const (
	DefaultMaxRetries = 4
	DefaultRetryDelay = 4000 * time.Millisecond
)

// RetryScheduler bounds load attempts for one source and owns the retry timer.
// The delay is fixed.
type RetryScheduler struct {
	max   int
	delay time.Duration
	count int
	slot  timerSlot

	// scheduled runs when a retry is armed, fire when it elapses and exhausted when the bound is hit.
	scheduled func()
	fire      func()
	exhausted func()
}

func newRetryScheduler(sched Scheduler, max int, delay time.Duration) *RetryScheduler {
	return &RetryScheduler{
		max:       max,
		delay:     delay,
		slot:      timerSlot{sched: sched},
		scheduled: func() {},
		fire:      func() {},
		exhausted: func() {},
	}
}

// Schedule arms a retry after a fatal failure and reports whether it did.
// The failure that would start attempt number max+1 is terminal instead.
func (r *RetryScheduler) Schedule(reason string) bool {
	r.slot.cancel()

	if r.count+1 >= r.max {
		log.WithFields(log.Fields{"reason": reason, "retries": r.count}).Error("giving up on stream")
		r.count = r.max
		r.exhausted()
		return false
	}

	r.count++
	log.WithFields(log.Fields{"reason": reason, "retry": r.count, "delay": r.delay}).Warn("scheduling stream retry")
	r.scheduled()
	r.slot.arm(r.delay, r.fire)
	return true
}

// Cancel disarms the pending retry, if any.
func (r *RetryScheduler) Cancel() {
	r.slot.cancel()
}

// Reset clears the attempt count.
func (r *RetryScheduler) Reset() {
	r.count = 0
}

// Exhaust cancels the pending retry and forbids further ones until Reset.
func (r *RetryScheduler) Exhaust() {
	r.slot.cancel()
	r.count = r.max
}

func (r *RetryScheduler) Count() int {
	return r.count
}

func (r *RetryScheduler) Pending() bool {
	return r.slot.pending()
}
