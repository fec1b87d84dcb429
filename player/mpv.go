package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPVOptions configures how mpv is launched.
type MPVOptions struct {
	// Path is the mpv executable. Defaults to "mpv".
	Path string

	// Title is shown in the mpv window.
	Title string

	// Pipe makes mpv read a transport stream from stdin, fed with AppendSegment.
	// Without it the surface loads URLs natively through SetSource.
	Pipe bool
}

type mpvState struct {
	paused     bool
	muted      bool
	volume     float64
	timePos    float64
	duration   float64
	fullscreen bool
	loaded     bool
}

// MPV is a Surface and Container backed by an mpv process.
type MPV struct {
	emitter

	opts       MPVOptions
	socketPath string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	exited     chan struct{}
	listener   *EventListener

	mu      sync.Mutex // serializes IPC round trips
	stateMu sync.RWMutex
	state   mpvState
}

// NewMPV creates an mpv surface. Call Start before use.
func NewMPV(opts MPVOptions) *MPV {
	if opts.Path == "" {
		opts.Path = "mpv"
	}

	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
		state:  mpvState{paused: true, volume: 1},
	}
}

// Start launches mpv idle and paused, then subscribes to its events.
func (m *MPV) Start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Pitchplay, randomBytes))
	}

	title := sanitizeTitle(m.opts.Title)
	if title == "" {
		title = constant.Pitchplay
	}

	// Do not pass --vo, --profile, --hwdec: the user's mpv.conf decides.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
		"--pause=yes",
		"--keep-open=yes",
	}

	m.cmd = exec.Command(m.opts.Path, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil

	if m.opts.Pipe {
		m.cmd.Args = append(m.cmd.Args, "--cache=yes", "-")
		stdin, err := m.cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("mpv stdin: %w", err)
		}
		m.stdin = stdin
	}

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handleMessage)
	if err := m.listener.Start(); err != nil {
		_ = killProcess(m.cmd)
		return err
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handleMessage folds an mpv event into the cached state and emits the matching surface events.
func (m *MPV) handleMessage(msg ipcMessage) {
	switch msg.Event {
	case "property-change":
		m.handleProperty(msg.Name, msg.Data)
	case "file-loaded":
		m.update(func(s *mpvState) { s.loaded = true })
		m.emit(EventLoadedMetadata)
		m.emit(EventCanPlay)
	case "end-file":
		if msg.Reason == "error" {
			log.Warnf("mpv failed to load media: %s", msg.FileError)
			m.update(func(s *mpvState) { s.loaded = false })
			m.emit(EventError)
		}
	}
}

func (m *MPV) handleProperty(name string, data interface{}) {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			m.update(func(s *mpvState) { s.timePos = v })
			m.emit(EventTimeUpdate)
		}
	case "duration":
		if v, ok := data.(float64); ok {
			m.update(func(s *mpvState) { s.duration = v })
		}
	case "pause":
		if v, ok := data.(bool); ok {
			m.update(func(s *mpvState) { s.paused = v })
			if v {
				m.emit(EventPause)
			} else {
				m.emit(EventPlay)
			}
		}
	case "volume":
		if v, ok := data.(float64); ok {
			m.update(func(s *mpvState) { s.volume = v / 100 })
			m.emit(EventVolumeChange)
		}
	case "mute":
		if v, ok := data.(bool); ok {
			m.update(func(s *mpvState) { s.muted = v })
			m.emit(EventVolumeChange)
		}
	case "fullscreen":
		if v, ok := data.(bool); ok {
			m.update(func(s *mpvState) { s.fullscreen = v })
			m.emit(EventFullscreenChange)
		}
	case "eof-reached":
		if v, ok := data.(bool); ok && v {
			m.emit(EventEnded)
		}
	}
}

func (m *MPV) update(fn func(*mpvState)) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	fn(&m.state)
}

func (m *MPV) snapshot() mpvState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *MPV) Paused() bool          { return m.snapshot().paused }
func (m *MPV) Muted() bool           { return m.snapshot().muted }
func (m *MPV) Volume() float64       { return m.snapshot().volume }
func (m *MPV) CurrentTime() float64  { return m.snapshot().timePos }
func (m *MPV) Duration() float64     { return m.snapshot().duration }
func (m *MPV) IsFullscreen() bool    { return m.snapshot().fullscreen }
func (m *MPV) AcceptsSegments() bool { return m.opts.Pipe }

// Play resumes playback.
func (m *MPV) Play() error {
	if !m.snapshot().loaded {
		return ErrNoMedia
	}
	return m.set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

func (m *MPV) SetMuted(muted bool) error {
	m.update(func(s *mpvState) { s.muted = muted })
	return m.set("mute", muted)
}

func (m *MPV) SetVolume(volume float64) error {
	m.update(func(s *mpvState) { s.volume = volume })
	return m.set("volume", volume*100)
}

func (m *MPV) SetCurrentTime(seconds float64) error {
	m.update(func(s *mpvState) { s.timePos = seconds })
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// CanPlayType reports native HLS support; mpv demuxes HLS through ffmpeg.
func (m *MPV) CanPlayType(mime string) string {
	switch strings.ToLower(mime) {
	case constant.HLSMimeType, "application/x-mpegurl", "video/mp2t", "video/mp4":
		return "maybe"
	default:
		return ""
	}
}

// SetSource loads url, sending headers with every HTTP request mpv makes for it.
func (m *MPV) SetSource(rawURL string, headers map[string]string) error {
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	fields := make([]string, 0, len(headers))
	for k, v := range headers {
		fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(v, ",", "%2C")))
	}
	sort.Strings(fields)

	if err := m.set("http-header-fields", fields); err != nil {
		return err
	}

	m.update(func(s *mpvState) { s.loaded = false })
	_, err = m.sendCommand("loadfile", safeURL, "replace")
	return err
}

// AppendSegment writes media bytes to mpv's stdin.
func (m *MPV) AppendSegment(data []byte) error {
	if m.stdin == nil {
		return errors.New("mpv was not started in pipe mode")
	}
	_, err := m.stdin.Write(data)
	return err
}

// ResetBuffer is a no-op: the transport stream demuxer resynchronizes on the next packet.
func (m *MPV) ResetBuffer() error {
	if m.stdin == nil {
		return errors.New("mpv was not started in pipe mode")
	}
	return nil
}

// RetainBack caps how much demuxed media mpv keeps behind the playhead.
func (m *MPV) RetainBack(n int64) error {
	if n <= 0 {
		return nil
	}
	return m.set("demuxer-max-back-bytes", strconv.FormatInt(n, 10))
}

func (m *MPV) RequestFullscreen() error { return m.set("fullscreen", true) }
func (m *MPV) ExitFullscreen() error    { return m.set("fullscreen", false) }

func (m *MPV) OnFullscreenChange(fn func(fullscreen bool)) (off func()) {
	return m.On(EventFullscreenChange, func() { fn(m.IsFullscreen()) })
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.stdin != nil {
		_ = m.stdin.Close()
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// sanitizeMediaTarget rejects targets mpv would interpret as flags or non-HTTP protocols.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
