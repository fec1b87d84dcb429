// Package hls is an adaptive HTTP Live Streaming client.
// It loads a master or media playlist, picks a variant from measured throughput,
// and feeds segments in order to a Sink such as mpv reading from a pipe.
package hls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	fragRetryDelay = time.Second
	destroyTimeout = 2 * time.Second
)

// Client streams one source into one Sink.
// Callbacks run on the client's own goroutines.
type Client struct {
	cfg     Config
	limiter *rate.Limiter
	est     estimator

	mu         sync.Mutex
	sink       Sink
	onManifest func(Manifest)
	onError    func(ErrorData)
	src        string
	levels     []Level
	level      int
	position   uint64
	started    bool
	needInit   bool
	cancel     context.CancelFunc
	generation int
	destroyed  bool
	wg         sync.WaitGroup
}

// New creates a client. Nothing is fetched until both AttachMedia and LoadSource were called.
func New(cfg Config) *Client {
	c := &Client{cfg: cfg, needInit: true}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, cfg.workers()))
	}
	return c
}

// OnManifestParsed registers the listener called once the source playlist is parsed.
func (c *Client) OnManifestParsed(fn func(Manifest)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onManifest = fn
}

// OnError registers the listener for fatal and non-fatal errors.
func (c *Client) OnError(fn func(ErrorData)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// AttachMedia binds the client to sink.
func (c *Client) AttachMedia(sink Sink) error {
	if sink == nil || !sink.AcceptsSegments() {
		return ErrNoMedia
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}

	c.sink = sink
	if c.src != "" {
		c.restartLocked()
	}
	return nil
}

// LoadSource starts loading rawURL, replacing any previous source.
func (c *Client) LoadSource(rawURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}

	c.src = rawURL
	c.levels = nil
	c.level = 0
	c.position = 0
	c.started = false
	c.needInit = true

	if c.sink != nil {
		c.restartLocked()
	}
}

// RecoverMediaError resets the sink and resumes from the first segment that was not appended.
func (c *Client) RecoverMediaError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}
	if c.sink == nil || c.src == "" {
		return ErrNoMedia
	}

	if err := c.sink.ResetBuffer(); err != nil {
		return fmt.Errorf("reset buffer: %w", err)
	}

	c.needInit = true
	c.restartLocked()
	return nil
}

// Destroy stops loading and drops listeners. It is safe to call more than once.
func (c *Client) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.onManifest = nil
	c.onError = nil
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(destroyTimeout):
		log.Warnf("hls: loader still blocked in sink %s after destroy", destroyTimeout)
	}
}

func (c *Client) restartLocked() {
	if c.cancel != nil {
		c.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.generation++

	c.wg.Add(1)
	go c.run(ctx, c.generation)
}

func (c *Client) run(ctx context.Context, gen int) {
	defer c.wg.Done()

	c.mu.Lock()
	src, levels, level := c.src, c.levels, c.level
	c.mu.Unlock()

	var playlist *mediaPlaylist
	if levels == nil {
		var err error
		levels, playlist, err = c.loadManifest(ctx, src)
		if err != nil {
			return
		}

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.levels = levels
		onManifest := c.onManifest
		c.mu.Unlock()

		if onManifest != nil && ctx.Err() == nil {
			onManifest(Manifest{URL: src, Levels: levels, Live: playlist != nil && playlist.live})
		}
	}

	c.stream(ctx, gen, levels, level, playlist)
}

func (c *Client) loadManifest(ctx context.Context, src string) ([]Level, *mediaPlaylist, error) {
	base, err := url.Parse(src)
	if err != nil {
		c.fail(ctx, ErrorData{Type: NetworkError, Details: ManifestParsingError, Fatal: true, Err: err})
		return nil, nil, err
	}

	body, err := c.get(ctx, src, c.cfg.ManifestTimeout)
	if err != nil {
		c.fail(ctx, ErrorData{Type: NetworkError, Details: ManifestLoadError, Fatal: true, Err: err})
		return nil, nil, err
	}

	levels, playlist, err := decodePlaylist(body, base)
	if err != nil {
		c.fail(ctx, ErrorData{Type: NetworkError, Details: ManifestParsingError, Fatal: true, Err: err})
		return nil, nil, err
	}

	return levels, playlist, nil
}

func (c *Client) loadLevel(ctx context.Context, level Level) (*mediaPlaylist, error) {
	base, err := url.Parse(level.URI)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, level.URI, c.cfg.ManifestTimeout)
	if err != nil {
		return nil, err
	}

	playlist, err := decodeMedia(body, base)
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// stream appends segments until the playlist ends, an error stops it, or ctx is cancelled.
func (c *Client) stream(ctx context.Context, gen int, levels []Level, level int, playlist *mediaPlaylist) {
	var (
		err      error
		lastInit string
		window   = backWindow{length: c.cfg.BackBufferLength}
	)

	for {
		if playlist == nil {
			if playlist, err = c.loadLevel(ctx, levels[level]); err != nil {
				c.fail(ctx, ErrorData{Type: NetworkError, Details: LevelLoadError, Fatal: true, Err: err})
				return
			}
		}

		if len(playlist.segments) == 0 && !playlist.live {
			c.fail(ctx, ErrorData{Type: NetworkError, Details: LevelEmptyError, Fatal: true, Err: errors.New("playlist has no segments")})
			return
		}

		next, ok := c.nextPosition(gen, playlist)
		if !ok {
			return
		}

		pending := playlist.after(next)
		if len(pending) == 0 {
			if !playlist.live {
				log.Debugf("hls: reached end of playlist at level %d", level)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(playlist.reloadInterval(c.cfg.LowLatencyMode)):
			}
			playlist = nil
			continue
		}

		batch := pending[:min(len(pending), c.cfg.workers())]
		data, err := c.fetchBatch(ctx, batch)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			c.fail(ctx, ErrorData{Type: NetworkError, Details: FragLoadError, Fatal: true, Err: err})
			return
		}

		for i, seg := range batch {
			if ctx.Err() != nil {
				return
			}

			if err := c.appendSegment(ctx, gen, seg, data[i], &lastInit); err != nil {
				c.fail(ctx, ErrorData{Type: MediaError, Details: BufferAppendError, Fatal: true, Err: err})
				return
			}

			if n, ok := window.add(seg.duration, len(data[i])); ok {
				c.retainBack(n)
			}
		}

		if switched := nextLevel(levels, level, c.est.estimate()); switched != level {
			log.Debugf("hls: switching level %d -> %d (estimate %.0f bps)", level, switched, c.est.estimate())
			level = switched
			playlist = nil

			c.mu.Lock()
			if gen == c.generation {
				c.level = level
			}
			c.mu.Unlock()
		}
	}
}

// nextPosition returns the sequence number to continue from, initializing it on first use.
func (c *Client) nextPosition(gen int, playlist *mediaPlaylist) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return 0, false
	}

	if !c.started {
		c.position = c.cfg.StartSequence.OrElse(playlist.startSeq())
		c.started = true
	}
	return c.position, true
}

// Position returns the sequence number of the next segment to append.
// It is false until loading picked a start position.
func (c *Client) Position() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position, c.started
}

func (c *Client) appendSegment(ctx context.Context, gen int, seg segment, data []byte, lastInit *string) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	sink := c.sink
	needInit := c.needInit || seg.initURI != *lastInit
	c.mu.Unlock()

	if needInit && seg.initURI != "" {
		init, err := c.get(ctx, seg.initURI, c.cfg.ManifestTimeout)
		if err != nil {
			return fmt.Errorf("load init section: %w", err)
		}
		if err := sink.AppendSegment(init); err != nil {
			return err
		}
	}
	*lastInit = seg.initURI

	if err := sink.AppendSegment(data); err != nil {
		return err
	}

	c.mu.Lock()
	if gen == c.generation {
		c.position = seg.seq + 1
		c.needInit = false
	}
	c.mu.Unlock()
	return nil
}

func (c *Client) retainBack(n int64) {
	c.mu.Lock()
	buffer, ok := c.sink.(BackBuffer)
	c.mu.Unlock()

	if !ok {
		return
	}
	if err := buffer.RetainBack(n); err != nil {
		log.Debugf("hls: limiting back buffer to %d bytes: %s", n, err)
	}
}

// fetchBatch downloads segments concurrently; results keep the order of batch.
func (c *Client) fetchBatch(ctx context.Context, batch []segment) ([][]byte, error) {
	data := make([][]byte, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.workers())

	for i, seg := range batch {
		g.Go(func() error {
			b, err := c.fetchSegment(gctx, seg)
			if err != nil {
				return err
			}
			data[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) fetchSegment(ctx context.Context, seg segment) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxSegmentRetries; attempt++ {
		if attempt > 0 {
			c.fail(ctx, ErrorData{Type: NetworkError, Details: FragLoadError, Err: lastErr})

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(fragRetryDelay * time.Duration(attempt)):
			}
		}

		start := time.Now()
		data, err := c.get(ctx, seg.uri, 0)
		if err == nil {
			c.est.sample(len(data), time.Since(start))
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("segment %d: %w", seg.seq, err)
	}

	return nil, lastErr
}

// fail reports err unless the load it belongs to was cancelled.
func (c *Client) fail(ctx context.Context, data ErrorData) {
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	onError := c.onError
	c.mu.Unlock()

	if onError != nil {
		onError(data)
	}
}

func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	if c.cfg.RequestHook != nil {
		c.cfg.RequestHook(req)
	}

	resp, err := c.cfg.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}
