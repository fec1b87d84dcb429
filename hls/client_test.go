package hls

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const vodPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:4
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:4.0,
seg0.ts
#EXTINF:4.0,
seg1.ts
#EXTINF:4.0,
seg2.ts
#EXT-X-ENDLIST
`

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=2000000,RESOLUTION=1280x720
high/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=500000,RESOLUTION=640x360
low/index.m3u8
`

type recordingSink struct {
	mu       sync.Mutex
	segments []string
	failOn   string
	resets   int
	appended chan string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{appended: make(chan string, 64)}
}

func (s *recordingSink) AcceptsSegments() bool { return true }

func (s *recordingSink) AppendSegment(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != "" && string(data) == s.failOn {
		s.failOn = ""
		return errors.New("demuxer rejected data")
	}

	s.segments = append(s.segments, string(data))
	s.appended <- string(data)
	return nil
}

func (s *recordingSink) ResetBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	return nil
}

// retainingSink also bounds its back buffer.
type retainingSink struct {
	*recordingSink
	retained chan int64
}

func (s *retainingSink) RetainBack(n int64) error {
	s.retained <- n
	return nil
}

func (s *recordingSink) collect(n int) []string {
	var got []string
	for len(got) < n {
		select {
		case seg := <-s.appended:
			got = append(got, seg)
		case <-time.After(5 * time.Second):
			return got
		}
	}
	return got
}

type origin struct {
	*httptest.Server
	mu      sync.Mutex
	auth    []string
	missing map[string]bool
}

func newOrigin(routes map[string]string) *origin {
	o := &origin{missing: map[string]bool{}}
	o.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.mu.Lock()
		o.auth = append(o.auth, r.Header.Get("Authorization"))
		missing := o.missing[r.URL.Path]
		o.mu.Unlock()

		body, ok := routes[r.URL.Path]
		if !ok || missing {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	return o
}

func (o *origin) authHeaders() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.auth...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0
	cfg.ManifestTimeout = 5 * time.Second
	return cfg
}

func vodRoutes() map[string]string {
	return map[string]string{
		"/stream/p1":      vodPlaylist,
		"/stream/seg0.ts": "seg0",
		"/stream/seg1.ts": "seg1",
		"/stream/seg2.ts": "seg2",
	}
}

func TestClient(t *testing.T) {
	fragRetryDelay = time.Millisecond

	Convey("Given an origin serving a VOD media playlist", t, func() {
		server := newOrigin(vodRoutes())
		defer server.Close()

		sink := newRecordingSink()
		cfg := testConfig()
		cfg.RequestHook = func(r *http.Request) { r.Header.Set("Authorization", "Bearer token") }
		client := New(cfg)
		defer client.Destroy()

		manifests := make(chan Manifest, 1)
		client.OnManifestParsed(func(m Manifest) { manifests <- m })

		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/p1")

		Convey("It reports the manifest and appends every segment in order", func() {
			m := <-manifests
			So(m.Live, ShouldBeFalse)
			So(m.Levels, ShouldHaveLength, 1)
			So(sink.collect(3), ShouldResemble, []string{"seg0", "seg1", "seg2"})
		})

		Convey("Every request carries the bearer credential", func() {
			sink.collect(3)
			headers := server.authHeaders()
			So(len(headers), ShouldBeGreaterThanOrEqualTo, 4)
			for _, h := range headers {
				So(h, ShouldEqual, "Bearer token")
			}
		})
	})

	Convey("Given a missing manifest", t, func() {
		server := newOrigin(map[string]string{})
		defer server.Close()

		client := New(testConfig())
		defer client.Destroy()

		errs := make(chan ErrorData, 4)
		client.OnError(func(e ErrorData) { errs <- e })
		So(client.AttachMedia(newRecordingSink()), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/none")

		Convey("It fails with a fatal network error", func() {
			e := <-errs
			So(e.Fatal, ShouldBeTrue)
			So(e.Type, ShouldEqual, NetworkError)
			So(e.Details, ShouldEqual, ManifestLoadError)

			var status *StatusError
			So(errors.As(e, &status), ShouldBeTrue)
			So(status.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a segment that keeps failing", t, func() {
		server := newOrigin(vodRoutes())
		server.missing["/stream/seg1.ts"] = true
		defer server.Close()

		cfg := testConfig()
		cfg.MaxSegmentRetries = 1
		cfg.EnableWorker = false
		client := New(cfg)
		defer client.Destroy()

		errs := make(chan ErrorData, 8)
		client.OnError(func(e ErrorData) { errs <- e })
		sink := newRecordingSink()
		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/p1")

		Convey("Each retry is non-fatal and the last failure is fatal", func() {
			first := <-errs
			So(first.Fatal, ShouldBeFalse)
			So(first.Details, ShouldEqual, FragLoadError)

			last := <-errs
			So(last.Fatal, ShouldBeTrue)
			So(last.Type, ShouldEqual, NetworkError)
			So(last.Details, ShouldEqual, FragLoadError)

			So(sink.collect(1), ShouldResemble, []string{"seg0"})
		})
	})

	Convey("Given a sink that rejects a segment once", t, func() {
		server := newOrigin(vodRoutes())
		defer server.Close()

		cfg := testConfig()
		cfg.EnableWorker = false
		client := New(cfg)
		defer client.Destroy()

		errs := make(chan ErrorData, 4)
		client.OnError(func(e ErrorData) { errs <- e })
		sink := newRecordingSink()
		sink.failOn = "seg1"
		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/p1")

		Convey("It reports a fatal media error and recovers from the failed segment", func() {
			e := <-errs
			So(e.Fatal, ShouldBeTrue)
			So(e.Type, ShouldEqual, MediaError)
			So(e.Details, ShouldEqual, BufferAppendError)
			So(sink.collect(1), ShouldResemble, []string{"seg0"})

			So(client.RecoverMediaError(), ShouldBeNil)
			So(sink.collect(2), ShouldResemble, []string{"seg1", "seg2"})
			So(sink.resets, ShouldEqual, 1)
		})
	})

	Convey("Given a sink with a bounded back buffer", t, func() {
		server := newOrigin(vodRoutes())
		defer server.Close()

		cfg := testConfig()
		cfg.EnableWorker = false
		cfg.BackBufferLength = 8
		client := New(cfg)
		defer client.Destroy()

		sink := &retainingSink{recordingSink: newRecordingSink(), retained: make(chan int64, 4)}
		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/p1")

		Convey("It is limited to the size of the last 8 seconds", func() {
			sink.collect(3)
			So(<-sink.retained, ShouldEqual, int64(len("seg0")+len("seg1")))
		})
	})

	Convey("Given a stream that breaks after two segments", t, func() {
		server := newOrigin(vodRoutes())
		server.missing["/stream/seg2.ts"] = true
		defer server.Close()

		cfg := testConfig()
		cfg.EnableWorker = false
		cfg.MaxSegmentRetries = 0
		client := New(cfg)

		errs := make(chan ErrorData, 4)
		client.OnError(func(e ErrorData) { errs <- e })
		sink := newRecordingSink()
		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/p1")

		Convey("A replacement client continues where the first one stopped", func() {
			So((<-errs).Fatal, ShouldBeTrue)
			client.Destroy()

			next, ok := client.Position()
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, uint64(2))

			server.mu.Lock()
			delete(server.missing, "/stream/seg2.ts")
			server.mu.Unlock()

			cfg.StartSequence = mo.Some(next)
			retry := New(cfg)
			defer retry.Destroy()
			So(retry.AttachMedia(sink), ShouldBeNil)
			retry.LoadSource(server.URL + "/stream/p1")

			So(sink.collect(3), ShouldResemble, []string{"seg0", "seg1", "seg2"})
			time.Sleep(50 * time.Millisecond)
			sink.mu.Lock()
			defer sink.mu.Unlock()
			So(sink.segments, ShouldResemble, []string{"seg0", "seg1", "seg2"})
		})
	})

	Convey("Given a master playlist", t, func() {
		routes := map[string]string{
			"/stream/master":          masterPlaylist,
			"/stream/low/index.m3u8":  strings.ReplaceAll(vodPlaylist, "seg", "low"),
			"/stream/high/index.m3u8": strings.ReplaceAll(vodPlaylist, "seg", "high"),
		}
		for i := 0; i < 3; i++ {
			routes[fmt.Sprintf("/stream/low/low%d.ts", i)] = fmt.Sprintf("low%d", i)
			routes[fmt.Sprintf("/stream/high/high%d.ts", i)] = fmt.Sprintf("high%d", i)
		}
		server := newOrigin(routes)
		defer server.Close()

		client := New(testConfig())
		defer client.Destroy()

		manifests := make(chan Manifest, 1)
		client.OnManifestParsed(func(m Manifest) { manifests <- m })
		sink := newRecordingSink()
		So(client.AttachMedia(sink), ShouldBeNil)
		client.LoadSource(server.URL + "/stream/master")

		Convey("Levels are sorted by bandwidth and loading starts at the lowest", func() {
			m := <-manifests
			So(m.Levels, ShouldHaveLength, 2)
			So(m.Levels[0].Bandwidth, ShouldEqual, 500000)
			So(m.Levels[0].URI, ShouldEqual, server.URL+"/stream/low/index.m3u8")
			So(sink.collect(1), ShouldResemble, []string{"low0"})
		})
	})

	Convey("Given a destroyed client", t, func() {
		client := New(testConfig())
		client.Destroy()

		Convey("It refuses media and ignores a second Destroy", func() {
			So(client.AttachMedia(newRecordingSink()), ShouldEqual, ErrDestroyed)
			So(client.RecoverMediaError(), ShouldEqual, ErrDestroyed)
			So(client.Destroy, ShouldNotPanic)
		})
	})
}

func TestIsSupported(t *testing.T) {
	Convey("IsSupported accepts only sinks that take segments", t, func() {
		So(IsSupported(newRecordingSink()), ShouldBeTrue)
		So(IsSupported("not a sink"), ShouldBeFalse)
		So(IsSupported(nil), ShouldBeFalse)
	})
}
