package engine

import (
	"errors"
	"fmt"

	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/hls"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/network"
	"github.com/pitchplay/pitchplay/player"
	"github.com/samber/mo"
)

// AdaptiveClient is the part of *hls.Client a session drives.
type AdaptiveClient interface {
	OnManifestParsed(fn func(hls.Manifest))
	OnError(fn func(hls.ErrorData))
	AttachMedia(sink hls.Sink) error
	LoadSource(url string)
	RecoverMediaError() error
	Position() (uint64, bool)
	Destroy()
}

// AdaptiveFactory creates an adaptive client. A nil factory disables adaptive streaming.
type AdaptiveFactory func(cfg hls.Config) AdaptiveClient

// HLSFactory creates real *hls.Client values.
func HLSFactory(cfg hls.Config) AdaptiveClient {
	return hls.New(cfg)
}

// resumePoint is where the next adaptive session for source continues.
// The sink already holds every segment before sequence.
type resumePoint struct {
	source   string
	sequence uint64
}

// Session binds one stream URL to the surface until closed.
type Session struct {
	e      *Engine
	url    string
	native bool
	// recovered is set once in-place media recovery was tried.
	recovered bool
	scope     scope
}

// startSession attaches url to the engine's surface.
// Failures are reported to the engine and still return a session that can be closed.
func (e *Engine) startSession(url string) *Session {
	s := &Session{e: e, url: url}

	if url == "" {
		e.terminal(ErrSourceMissing)
		return s
	}

	surface, ok := e.surface.Get()
	if !ok {
		e.terminal(ErrPlayerUnavailable)
		return s
	}

	token := e.credential()

	if err := surface.SetMuted(false); err != nil {
		log.Warnf("session: reset mute: %s", err)
	}
	e.vm.IsMuted = false

	s.listen(surface)

	switch {
	case e.adaptive != nil && hls.IsSupported(surface):
		s.startAdaptive(surface.(hls.Sink), token)
	case surface.CanPlayType(constant.HLSMimeType) != "":
		s.startNative(surface, token)
	default:
		e.retry.Exhaust()
		e.terminal(ErrNotSupported)
	}

	return s
}

// Close removes every listener and destroys the adaptive client. It is safe to call more than once.
func (s *Session) Close() {
	s.scope.close()
}

func (s *Session) Closed() bool {
	return s.scope.closed
}

// Native reports whether the surface loads the stream on its own.
func (s *Session) Native() bool {
	return s.native
}

func (s *Session) startAdaptive(sink hls.Sink, token string) {
	cfg := s.e.hlsConfig
	cfg.RequestHook = network.Bearer(token)
	if p, ok := s.e.resume.Get(); ok && p.source == s.url {
		log.WithFields(log.Fields{"sequence": p.sequence}).Info("resuming stream after the last appended segment")
		cfg.StartSequence = mo.Some(p.sequence)
	}

	client := s.e.adaptive(cfg)
	s.scope.add(func() {
		client.Destroy()
		if seq, ok := client.Position(); ok {
			s.e.resume = mo.Some(resumePoint{source: s.url, sequence: seq})
		}
	})

	client.OnManifestParsed(deliver(s, func(m hls.Manifest) {
		log.WithFields(log.Fields{"levels": len(m.Levels), "live": m.Live}).Info("manifest parsed")
		s.e.vm.IsLoading = false
		s.e.retry.Reset()
		s.e.notify()
		s.e.autoplay.Attempt()
	}))

	client.OnError(deliver(s, func(data hls.ErrorData) {
		s.adaptiveError(client, data)
	}))

	if err := client.AttachMedia(sink); err != nil {
		s.e.retry.Schedule(fmt.Sprintf("attach media: %s", err))
		return
	}

	client.LoadSource(s.url)
}

func (s *Session) adaptiveError(client AdaptiveClient, data hls.ErrorData) {
	if !data.Fatal {
		log.WithFields(log.Fields{"type": data.Type, "details": data.Details}).Debugf("recoverable stream error: %v", data.Err)
		return
	}

	log.WithFields(log.Fields{"type": data.Type, "details": data.Details}).Errorf("fatal stream error: %v", data.Err)

	switch data.Type {
	case hls.MediaError:
		if !s.recovered {
			s.recovered = true
			err := client.RecoverMediaError()
			if err == nil {
				return
			}
			log.Warnf("media recovery failed: %s", err)
		}
		s.e.retry.Schedule(data.Details)
	default:
		s.e.retry.Schedule(data.Details)
	}
}

func (s *Session) startNative(surface player.Surface, token string) {
	s.native = true
	if err := surface.SetSource(s.url, network.BearerHeaders(token)); err != nil {
		s.e.retry.Schedule(fmt.Sprintf("set source: %s", err))
	}
}

// listen attaches the view-model listeners every session needs.
func (s *Session) listen(surface player.Surface) {
	e := s.e

	s.on(surface, player.EventTimeUpdate, func() {
		if e.controller.settling() {
			return
		}
		e.vm.CurrentTime = surface.CurrentTime()
		if d := surface.Duration(); d > 0 {
			e.vm.Duration = d
		}
		e.notify()
	})

	s.on(surface, player.EventLoadedMetadata, func() {
		e.vm.Duration = surface.Duration()
		e.vm.IsLoading = false
		if s.native {
			e.retry.Reset()
		}
		e.notify()
		if s.native {
			e.autoplay.Attempt()
		}
	})

	s.on(surface, player.EventCanPlay, func() {
		e.vm.IsLoading = false
		e.notify()
		if !e.controller.resumeRequested() {
			e.autoplay.Attempt()
		}
	})

	s.on(surface, player.EventVolumeChange, func() {
		if e.controller.settling() {
			return
		}
		e.vm.Volume = surface.Volume()
		e.vm.IsMuted = surface.Muted()
		e.notify()
	})

	s.on(surface, player.EventPlay, func() {
		e.autoplay.Reset()
		e.controller.playRequested = false
		if errors.Is(e.vm.Err, ErrPlaybackFailed) {
			e.clearError()
		}
		e.setPlaying(true)
	})

	s.on(surface, player.EventPause, func() {
		e.setPlaying(false)
	})

	s.on(surface, player.EventEnded, func() {
		e.setPlaying(false)
	})

	s.on(surface, player.EventError, func() {
		e.retry.Schedule("media element error")
	})
}

func (s *Session) on(surface player.Surface, ev player.Event, fn func()) {
	s.scope.add(surface.On(ev, func() {
		s.e.sched.Post(func() {
			if !s.Closed() {
				fn()
			}
		})
	}))
}

// deliver hops a callback onto the event loop and drops it once s is closed.
func deliver[T any](s *Session, fn func(T)) func(T) {
	return func(v T) {
		s.e.sched.Post(func() {
			if !s.Closed() {
				fn(v)
			}
		})
	}
}
