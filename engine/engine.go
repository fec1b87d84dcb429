// Package engine drives adaptive video playback on a media surface.
//
// An Engine resolves a pitch id to a stream, runs one Session at a time against
// the surface, retries fatal failures a bounded number of times, and keeps a
// ViewModel in sync for the front-end. Everything runs on a single event loop:
// methods must be called from functions posted to the Scheduler.
package engine

import (
	"time"

	"github.com/pitchplay/pitchplay/hls"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/player"
	"github.com/samber/mo"
)

// CredentialProvider returns the bearer token for a new session. An empty token is allowed.
type CredentialProvider func() (string, error)

// Options configures an Engine.
type Options struct {
	Scheduler Scheduler

	// Endpoint is the API base URL streams are resolved against.
	Endpoint string
	ID       string

	Surface   mo.Option[player.Surface]
	Container mo.Option[player.Container]

	// Adaptive creates the streaming client. Nil falls back to native playback.
	Adaptive AdaptiveFactory
	HLS      hls.Config

	Credentials CredentialProvider

	MaxRetries       int
	RetryDelay       time.Duration
	AutoplayAttempts int
	HideDelay        time.Duration

	// Go runs blocking surface calls off the loop. Defaults to a new goroutine.
	Go func(fn func())
}

// Engine composes sessions, retries, autoplay, the controller and the controls machine.
type Engine struct {
	sched     Scheduler
	endpoint  string
	id        string
	surface   mo.Option[player.Surface]
	container mo.Option[player.Container]
	adaptive  AdaptiveFactory
	hlsConfig hls.Config
	creds     CredentialProvider
	goFn      func(fn func())

	vm         ViewModel
	session    *Session
	resume     mo.Option[resumePoint]
	retry      *RetryScheduler
	autoplay   *Autoplay
	controller *Controller
	controls   *Controls
	global     scope
	mounted    bool
	listeners  []func(ViewModel)
}

func New(opts Options) *Engine {
	if opts.Scheduler == nil {
		opts.Scheduler = NewLoop()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.AutoplayAttempts <= 0 {
		opts.AutoplayAttempts = DefaultAutoplayAttempts
	}
	if opts.HideDelay <= 0 {
		opts.HideDelay = DefaultHideDelay
	}
	if opts.Go == nil {
		opts.Go = func(fn func()) { go fn() }
	}
	if opts.Credentials == nil {
		opts.Credentials = func() (string, error) { return "", nil }
	}

	e := &Engine{
		sched:     opts.Scheduler,
		endpoint:  opts.Endpoint,
		id:        opts.ID,
		surface:   opts.Surface,
		container: opts.Container,
		adaptive:  opts.Adaptive,
		hlsConfig: opts.HLS,
		creds:     opts.Credentials,
		goFn:      opts.Go,
		vm:        ViewModel{Volume: 1},
	}

	e.retry = newRetryScheduler(e.sched, opts.MaxRetries, opts.RetryDelay)
	e.retry.scheduled = func() {
		e.vm.IsLoading = true
		e.clearError()
		e.notify()
	}
	e.retry.fire = e.recreate
	e.retry.exhausted = func() { e.terminal(ErrRetriesExhausted) }

	e.autoplay = &Autoplay{e: e, max: opts.AutoplayAttempts}
	e.controller = &Controller{e: e, settle: timerSlot{sched: e.sched}}
	e.controls = newControls(e.sched, opts.HideDelay, e.notify)

	return e
}

// Mount subscribes to the container and starts the first session.
func (e *Engine) Mount() {
	if e.mounted {
		return
	}
	e.mounted = true
	e.global = scope{}

	if container, ok := e.container.Get(); ok {
		e.vm.IsFullscreen = container.IsFullscreen()
		e.global.add(container.OnFullscreenChange(func(fullscreen bool) {
			e.sched.Post(func() {
				if !e.mounted {
					return
				}
				e.vm.IsFullscreen = fullscreen
				e.notify()
			})
		}))
	}

	e.reconfigure()
}

// Load switches to another pitch.
func (e *Engine) Load(id string) {
	if id == e.id {
		return
	}
	e.id = id
	e.resume = mo.None[resumePoint]()
	if e.mounted {
		e.reconfigure()
	}
}

// SetToken replaces the credential. The running session is recreated with it.
func (e *Engine) SetToken(token string) {
	e.creds = func() (string, error) { return token, nil }
	if e.mounted {
		e.reconfigure()
	}
}

// Retry starts over with a fresh retry budget.
func (e *Engine) Retry() {
	if e.mounted {
		e.reconfigure()
	}
}

// Unmount cancels every timer and releases the session and global subscriptions.
func (e *Engine) Unmount() {
	e.retry.Cancel()
	e.controls.Close()
	e.controller.cancelSettle()
	e.controller.playRequested = false
	e.teardown()
	e.global.close()
	e.mounted = false
}

func (e *Engine) Source() string {
	return Resolve(e.id, e.endpoint)
}

func (e *Engine) Controller() *Controller {
	return e.controller
}

func (e *Engine) Controls() *Controls {
	return e.controls
}

// Session returns the active session, if any.
func (e *Engine) Session() mo.Option[*Session] {
	if e.session == nil {
		return mo.None[*Session]()
	}
	return mo.Some(e.session)
}

// Snapshot returns a copy of the view-model.
func (e *Engine) Snapshot() ViewModel {
	vm := e.vm
	vm.Retries = e.retry.Count()
	vm.ControlsVisible = e.controls.Visible()
	return vm
}

// OnChange registers fn to be called on the loop after every view-model change.
func (e *Engine) OnChange(fn func(ViewModel)) {
	e.listeners = append(e.listeners, fn)
}

// reconfigure replaces the session for the current id and credential.
func (e *Engine) reconfigure() {
	e.clearError()
	e.retry.Cancel()
	e.retry.Reset()
	e.vm.IsLoading = true
	e.teardown()
	e.session = e.startSession(e.Source())
	e.notify()
}

// recreate is the retry timer's target. It reads the source at fire time.
func (e *Engine) recreate() {
	if !e.mounted {
		return
	}
	e.clearError()
	e.teardown()
	e.session = e.startSession(e.Source())
	e.notify()
}

func (e *Engine) teardown() {
	if e.session != nil {
		e.session.Close()
		e.session = nil
	}
	e.vm.IsPlaying = false
	e.vm.CurrentTime = 0
	e.vm.Duration = 0
	e.controls.SetPlaying(false)
}

func (e *Engine) credential() string {
	token, err := e.creds()
	if err != nil {
		log.Warnf("reading credential: %s", err)
		return ""
	}
	return token
}

// terminal ends loading with err shown to the user.
func (e *Engine) terminal(err error) {
	log.Errorf("playback stopped: %s", err)
	e.vm.IsLoading = false
	e.setError(err)
}

func (e *Engine) setError(err error) {
	e.vm.Err = err
	e.vm.ErrorMessage = err.Error()
	e.notify()
}

func (e *Engine) clearError() {
	e.vm.Err = nil
	e.vm.ErrorMessage = ""
}

func (e *Engine) setPlaying(playing bool) {
	e.vm.IsPlaying = playing
	e.controls.SetPlaying(playing)
	e.notify()
}

// syncFromSurface copies the surface's position and volume into the view-model.
func (e *Engine) syncFromSurface() {
	surface, ok := e.surface.Get()
	if !ok {
		return
	}
	e.vm.CurrentTime = surface.CurrentTime()
	e.vm.Volume = surface.Volume()
	e.vm.IsMuted = surface.Muted()
	e.notify()
}

// play calls Play off the loop and reports the classified outcome back on it.
// Outcomes for a session that was replaced in the meantime are dropped.
func (e *Engine) play(surface player.Surface, done func(playOutcome)) {
	session := e.session
	e.goFn(func() {
		err := surface.Play()
		e.sched.Post(func() {
			if e.session != session || session == nil || session.Closed() {
				return
			}
			done(classifyPlay(err))
		})
	})
}

func (e *Engine) notify() {
	if len(e.listeners) == 0 {
		return
	}
	vm := e.Snapshot()
	for _, fn := range e.listeners {
		fn(vm)
	}
}
