package engine

import (
	"context"
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running. It reports whether the timer was still pending.
	Stop() bool
}

// Scheduler runs functions on the engine's event loop.
type Scheduler interface {
	// Post queues fn. It never blocks.
	Post(fn func())
	// AfterFunc queues fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is an unbounded FIFO event loop.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}
}

func NewLoop() *Loop {
	return &Loop{signal: make(chan struct{}, 1)}
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Next blocks until a function is queued and returns it without running it.
func (l *Loop) Next(ctx context.Context) (func(), error) {
	for {
		l.mu.Lock()
		if len(l.queue) > 0 {
			fn := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()
			return fn, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-l.signal:
		}
	}
}

// Run executes queued functions in order until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		fn, err := l.Next(ctx)
		if err != nil {
			return err
		}
		fn()
	}
}

// timerSlot holds at most one pending timer.
// A call that was already queued when the slot was cancelled or re-armed does nothing.
type timerSlot struct {
	sched Scheduler
	timer Timer
	gen   int
}

func (s *timerSlot) arm(d time.Duration, fn func()) {
	s.cancel()
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() {
		if gen != s.gen {
			return
		}
		s.timer = nil
		s.gen++
		fn()
	})
}

func (s *timerSlot) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *timerSlot) pending() bool {
	return s.timer != nil
}
