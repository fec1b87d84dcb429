package engine

import (
	"sort"
	"time"

	"github.com/pitchplay/pitchplay/hls"
	"github.com/pitchplay/pitchplay/player"
)

// fakeScheduler runs posts inline and fires timers from a manual clock.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

func (s *fakeScheduler) Post(fn func()) { fn() }

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		due := s.due(target)
		if due == nil {
			break
		}
		s.now = due.at
		due.fired = true
		due.fn()
	}
	s.now = target
}

func (s *fakeScheduler) due(target time.Duration) *fakeTimer {
	var pending []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].at < pending[j].at })
	return pending[0]
}

// Pending counts armed timers.
func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeSurface struct {
	next      int
	handlers  map[player.Event]map[int]func()
	paused    bool
	muted     bool
	volume    float64
	time      float64
	duration  float64
	canPlay   string
	segments  bool
	playErr   error
	plays     int
	sources   []string
	headers   map[string]string
	appended  int
	muteCalls []bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		handlers: map[player.Event]map[int]func(){},
		paused:   true,
		volume:   1,
		segments: true,
		canPlay:  "maybe",
	}
}

func (f *fakeSurface) Paused() bool { return f.paused }

func (f *fakeSurface) Play() error {
	f.plays++
	if f.playErr != nil {
		return f.playErr
	}
	f.paused = false
	f.emit(player.EventPlay)
	return nil
}

func (f *fakeSurface) Pause() error {
	f.paused = true
	f.emit(player.EventPause)
	return nil
}

func (f *fakeSurface) Muted() bool { return f.muted }

func (f *fakeSurface) SetMuted(muted bool) error {
	f.muted = muted
	f.muteCalls = append(f.muteCalls, muted)
	return nil
}

func (f *fakeSurface) Volume() float64 { return f.volume }

func (f *fakeSurface) SetVolume(v float64) error {
	f.volume = v
	return nil
}

func (f *fakeSurface) CurrentTime() float64 { return f.time }

func (f *fakeSurface) SetCurrentTime(t float64) error {
	f.time = t
	return nil
}

func (f *fakeSurface) Duration() float64 { return f.duration }

func (f *fakeSurface) CanPlayType(string) string { return f.canPlay }

func (f *fakeSurface) SetSource(url string, headers map[string]string) error {
	f.sources = append(f.sources, url)
	f.headers = headers
	return nil
}

func (f *fakeSurface) On(ev player.Event, fn func()) func() {
	if f.handlers[ev] == nil {
		f.handlers[ev] = map[int]func(){}
	}
	id := f.next
	f.next++
	f.handlers[ev][id] = fn
	return func() { delete(f.handlers[ev], id) }
}

func (f *fakeSurface) emit(ev player.Event) {
	for _, fn := range f.handlers[ev] {
		fn()
	}
}

func (f *fakeSurface) listeners() int {
	n := 0
	for _, hs := range f.handlers {
		n += len(hs)
	}
	return n
}

func (f *fakeSurface) AcceptsSegments() bool { return f.segments }

func (f *fakeSurface) AppendSegment([]byte) error {
	f.appended++
	return nil
}

func (f *fakeSurface) ResetBuffer() error { return nil }

type fakeContainer struct {
	fullscreen bool
	err        error
	handlers   map[int]func(bool)
	next       int
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{handlers: map[int]func(bool){}}
}

func (c *fakeContainer) RequestFullscreen() error {
	if c.err != nil {
		return c.err
	}
	c.set(true)
	return nil
}

func (c *fakeContainer) ExitFullscreen() error {
	if c.err != nil {
		return c.err
	}
	c.set(false)
	return nil
}

func (c *fakeContainer) IsFullscreen() bool { return c.fullscreen }

func (c *fakeContainer) OnFullscreenChange(fn func(bool)) func() {
	id := c.next
	c.next++
	c.handlers[id] = fn
	return func() { delete(c.handlers, id) }
}

func (c *fakeContainer) set(fullscreen bool) {
	c.fullscreen = fullscreen
	for _, fn := range c.handlers {
		fn(fullscreen)
	}
}

type fakeClient struct {
	cfg        hls.Config
	onManifest func(hls.Manifest)
	onError    func(hls.ErrorData)
	sink       hls.Sink
	loaded     []string
	recoverErr error
	recovers   int
	destroyed  int
	position   uint64
	started    bool
}

func (c *fakeClient) OnManifestParsed(fn func(hls.Manifest)) { c.onManifest = fn }
func (c *fakeClient) OnError(fn func(hls.ErrorData))         { c.onError = fn }

func (c *fakeClient) AttachMedia(sink hls.Sink) error {
	c.sink = sink
	return nil
}

func (c *fakeClient) LoadSource(url string) { c.loaded = append(c.loaded, url) }

func (c *fakeClient) RecoverMediaError() error {
	c.recovers++
	return c.recoverErr
}

func (c *fakeClient) Position() (uint64, bool) { return c.position, c.started }

func (c *fakeClient) Destroy() { c.destroyed++ }

// appended marks segments before seq as written to the sink.
func (c *fakeClient) appended(seq uint64) {
	c.position = seq
	c.started = true
}

func (c *fakeClient) fatal(t hls.ErrorType) {
	c.onError(hls.ErrorData{Type: t, Details: "test", Fatal: true})
}

type fakeFactory struct {
	clients    []*fakeClient
	recoverErr error
}

func (f *fakeFactory) New(cfg hls.Config) AdaptiveClient {
	c := &fakeClient{cfg: cfg, recoverErr: f.recoverErr}
	f.clients = append(f.clients, c)
	return c
}

func (f *fakeFactory) last() *fakeClient {
	return f.clients[len(f.clients)-1]
}
