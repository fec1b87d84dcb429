package engine

import "github.com/pitchplay/pitchplay/util"

// scope collects release functions and runs them newest first on close.
type scope struct {
	releases util.Stack[func()]
	closed   bool
}

func (s *scope) add(release func()) {
	if s.closed {
		release()
		return
	}
	s.releases.Push(release)
}

func (s *scope) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.releases.Drain(func(release func()) { release() })
}
