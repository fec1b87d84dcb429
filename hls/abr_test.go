package hls

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNextLevel(t *testing.T) {
	levels := []Level{{Bandwidth: 500_000}, {Bandwidth: 1_000_000}, {Bandwidth: 2_000_000}}

	Convey("Given three levels", t, func() {
		Convey("Without an estimate the level is kept", func() {
			So(nextLevel(levels, 1, 0), ShouldEqual, 1)
		})

		Convey("It switches up only with headroom", func() {
			So(nextLevel(levels, 0, 1_200_000), ShouldEqual, 0)
			So(nextLevel(levels, 0, 1_300_000), ShouldEqual, 1)
			So(nextLevel(levels, 0, 10_000_000), ShouldEqual, 2)
		})

		Convey("It switches down when the estimate drops below the current level", func() {
			So(nextLevel(levels, 2, 1_500_000), ShouldEqual, 1)
			So(nextLevel(levels, 2, 100_000), ShouldEqual, 0)
		})
	})
}

func TestEstimator(t *testing.T) {
	Convey("Given an estimator", t, func() {
		var e estimator

		Convey("The first sample is taken as is", func() {
			e.sample(125_000, time.Second)
			So(e.estimate(), ShouldEqual, 1_000_000)
		})

		Convey("Later samples are smoothed", func() {
			e.sample(125_000, time.Second)
			e.sample(250_000, time.Second)
			So(e.estimate(), ShouldAlmostEqual, 1_300_000, 1)
		})

		Convey("Empty samples are ignored", func() {
			e.sample(0, time.Second)
			e.sample(100, 0)
			So(e.estimate(), ShouldEqual, 0)
		})
	})
}

func TestPlaylist(t *testing.T) {
	Convey("Given a live playlist", t, func() {
		p := mediaPlaylist{targetDuration: 4, live: true}
		for i := uint64(10); i < 16; i++ {
			p.segments = append(p.segments, segment{seq: i})
		}

		Convey("Loading starts behind the live edge", func() {
			So(p.startSeq(), ShouldEqual, 13)
		})

		Convey("Low latency reloads twice as often", func() {
			So(p.reloadInterval(false), ShouldEqual, 4*time.Second)
			So(p.reloadInterval(true), ShouldEqual, 2*time.Second)
		})

		Convey("after skips appended segments", func() {
			So(p.after(14), ShouldHaveLength, 2)
			So(p.after(20), ShouldBeEmpty)
		})
	})
}
