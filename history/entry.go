package history

import (
	"fmt"
	"time"

	"github.com/pitchplay/pitchplay/engine"
)

// Entry is one pitch the user watched.
type Entry struct {
	ID                string    `json:"id"`
	Endpoint          string    `json:"endpoint"`
	Position          float64   `json:"position"`
	Duration          float64   `json:"duration"`
	WatchedPercentage float64   `json:"watched_percentage"`
	PlayedAt          time.Time `json:"played_at"`
}

func (e *Entry) encode() string {
	return fmt.Sprintf("%s (%s)", e.ID, e.Endpoint)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s  %s / %s (%.0f%%)", e.ID, engine.FormatTime(e.Position), engine.FormatTime(e.Duration), e.WatchedPercentage)
}

// NewEntry records the playback state of id from vm.
func NewEntry(id, endpoint string, vm engine.ViewModel) *Entry {
	return &Entry{
		ID:                id,
		Endpoint:          endpoint,
		Position:          vm.CurrentTime,
		Duration:          vm.Duration,
		WatchedPercentage: vm.ProgressPercent(),
		PlayedAt:          time.Now(),
	}
}
