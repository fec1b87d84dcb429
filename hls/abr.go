package hls

import (
	"sort"
	"sync"
	"time"
)

const (
	ewmaAlpha     = 0.3
	upSwitchRatio = 0.8
)

// Level is one variant stream of a master playlist.
type Level struct {
	URI        string
	Bandwidth  float64
	Resolution string
	Codecs     string
}

// estimator keeps an exponentially weighted moving average of segment throughput in bits per second.
// Workers sample concurrently.
type estimator struct {
	mu      sync.Mutex
	bps     float64
	samples int
}

func (e *estimator) sample(bytes int, elapsed time.Duration) {
	if bytes <= 0 || elapsed <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	bps := float64(bytes*8) / elapsed.Seconds()
	if e.samples == 0 {
		e.bps = bps
	} else {
		e.bps = ewmaAlpha*bps + (1-ewmaAlpha)*e.bps
	}
	e.samples++
}

func (e *estimator) estimate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bps
}

// nextLevel picks the level to fetch next. levels are sorted by ascending bandwidth.
func nextLevel(levels []Level, current int, estimate float64) int {
	if estimate <= 0 || len(levels) == 0 {
		return current
	}

	for current+1 < len(levels) && estimate*upSwitchRatio > levels[current+1].Bandwidth {
		current++
	}

	for current > 0 && estimate < levels[current].Bandwidth {
		current--
	}

	return current
}

func sortLevels(levels []Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Bandwidth < levels[j].Bandwidth
	})
}
