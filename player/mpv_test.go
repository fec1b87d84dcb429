package player

import (
	"testing"

	"github.com/pitchplay/pitchplay/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMPV(t *testing.T) {
	Convey("Given an mpv surface that was never started", t, func() {
		mpv := NewMPV(MPVOptions{Title: "Pitch"})

		Convey("It starts paused at full volume", func() {
			So(mpv.Paused(), ShouldBeTrue)
			So(mpv.Volume(), ShouldEqual, 1)
			So(mpv.Muted(), ShouldBeFalse)
		})

		Convey("Play reports that nothing is loaded", func() {
			So(mpv.Play(), ShouldEqual, ErrNoMedia)
		})

		Convey("It plays HLS natively", func() {
			So(mpv.CanPlayType(constant.HLSMimeType), ShouldEqual, "maybe")
			So(mpv.CanPlayType("video/webm; codecs=vp9"), ShouldBeEmpty)
		})

		Convey("It only accepts segments in pipe mode", func() {
			So(mpv.AcceptsSegments(), ShouldBeFalse)
			So(mpv.AppendSegment([]byte{0x47}), ShouldNotBeNil)
			So(NewMPV(MPVOptions{Pipe: true}).AcceptsSegments(), ShouldBeTrue)
		})

		Convey("An empty back buffer limit is ignored", func() {
			So(mpv.RetainBack(0), ShouldBeNil)
		})

		Convey("Close is a no-op", func() {
			So(mpv.Close(), ShouldBeNil)
		})
	})
}

func TestMPVEvents(t *testing.T) {
	Convey("Given an mpv surface receiving IPC events", t, func() {
		mpv := NewMPV(MPVOptions{})
		var seen []Event
		for _, ev := range []Event{EventPlay, EventPause, EventTimeUpdate, EventVolumeChange, EventLoadedMetadata, EventCanPlay, EventError, EventEnded} {
			ev := ev
			mpv.On(ev, func() { seen = append(seen, ev) })
		}

		Convey("file-loaded reports metadata and readiness", func() {
			mpv.handleMessage(ipcMessage{Event: "file-loaded"})
			So(seen, ShouldResemble, []Event{EventLoadedMetadata, EventCanPlay})
		})

		Convey("pause changes map to play and pause", func() {
			mpv.handleMessage(ipcMessage{Event: "property-change", Name: "pause", Data: false})
			So(mpv.Paused(), ShouldBeFalse)
			mpv.handleMessage(ipcMessage{Event: "property-change", Name: "pause", Data: true})
			So(seen, ShouldResemble, []Event{EventPlay, EventPause})
		})

		Convey("volume is scaled to [0, 1]", func() {
			mpv.handleMessage(ipcMessage{Event: "property-change", Name: "volume", Data: 50.0})
			So(mpv.Volume(), ShouldEqual, 0.5)
			So(seen, ShouldResemble, []Event{EventVolumeChange})
		})

		Convey("time-pos updates the current time", func() {
			mpv.handleMessage(ipcMessage{Event: "property-change", Name: "time-pos", Data: 12.5})
			So(mpv.CurrentTime(), ShouldEqual, 12.5)
		})

		Convey("a failed load is an error event", func() {
			mpv.handleMessage(ipcMessage{Event: "end-file", Reason: "error", FileError: "loading failed"})
			So(seen, ShouldResemble, []Event{EventError})
		})

		Convey("a normal end of file is not an error", func() {
			mpv.handleMessage(ipcMessage{Event: "end-file", Reason: "eof"})
			mpv.handleMessage(ipcMessage{Event: "property-change", Name: "eof-reached", Data: true})
			So(seen, ShouldResemble, []Event{EventEnded})
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)

		u, err := sanitizeMediaTarget(" https://api.example.com/elevator-pitch/stream/p1 ")
		So(err, ShouldBeNil)
		So(u, ShouldEqual, "https://api.example.com/elevator-pitch/stream/p1")
	})
}
