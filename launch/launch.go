// Package launch wires the mpv surface, the HLS client and the playback engine from configuration.
package launch

import (
	"fmt"

	"github.com/pitchplay/pitchplay/auth"
	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/history"
	"github.com/pitchplay/pitchplay/hls"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/network"
	"github.com/pitchplay/pitchplay/player"
	"github.com/pitchplay/pitchplay/query"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Player is a started mpv window driven by an engine.
// Engine methods must only be called from functions taken off Loop.
type Player struct {
	ID       string
	Endpoint string
	Loop     *engine.Loop
	Engine   *engine.Engine
	Surface  *player.MPV
}

// New starts mpv for pitch id. The engine is created but not mounted.
func New(id string) (*Player, error) {
	adaptive := viper.GetBool(key.PlayerAdaptive)

	surface := player.NewMPV(player.MPVOptions{
		Path:  viper.GetString(key.PlayerMPVPath),
		Title: fmt.Sprintf("%s - %s", constant.Pitchplay, id),
		Pipe:  adaptive,
	})
	if err := surface.Start(); err != nil {
		return nil, err
	}

	loop := engine.NewLoop()
	opts := Options(id)
	opts.Scheduler = loop
	opts.Surface = mo.Some[player.Surface](surface)
	opts.Container = mo.Some[player.Container](surface)
	if adaptive {
		opts.Adaptive = engine.HLSFactory
	}

	log.WithFields(log.Fields{"id": id, "adaptive": adaptive}).Info("starting player")

	return &Player{
		ID:       id,
		Endpoint: opts.Endpoint,
		Loop:     loop,
		Engine:   engine.New(opts),
		Surface:  surface,
	}, nil
}

// Options returns engine options read from configuration, without a scheduler or surface.
func Options(id string) engine.Options {
	return engine.Options{
		Endpoint:         viper.GetString(key.APIEndpoint),
		ID:               id,
		HLS:              HLSConfig(),
		Credentials:      auth.Credentials,
		MaxRetries:       viper.GetInt(key.PlayerMaxRetries),
		RetryDelay:       viper.GetDuration(key.PlayerRetryDelay),
		AutoplayAttempts: viper.GetInt(key.PlayerAutoplayAttempts),
		HideDelay:        viper.GetDuration(key.ControlsHideDelay),
	}
}

// HLSConfig returns the adaptive client configuration read from configuration.
func HLSConfig() hls.Config {
	cfg := hls.DefaultConfig()
	cfg.Workers = viper.GetInt(key.HLSWorkers)
	cfg.LowLatencyMode = viper.GetBool(key.HLSLowLatency)
	cfg.BackBufferLength = viper.GetDuration(key.HLSBackBuffer).Seconds()
	cfg.MaxSegmentRetries = viper.GetInt(key.HLSSegmentRetries)
	cfg.RequestsPerSecond = viper.GetFloat64(key.HLSRequestsPerSecond)
	cfg.HTTPClient = network.Default()
	return cfg
}

// Close unmounts the engine, quits mpv and records the pitch in history.
// The loop must no longer be running.
func (p *Player) Close() error {
	vm := p.Engine.Snapshot()
	p.Engine.Unmount()

	if err := p.Surface.Close(); err != nil {
		log.Warnf("closing mpv: %s", err)
	}

	if err := query.Remember(p.ID, 1); err != nil {
		log.Warnf("remembering %s: %s", p.ID, err)
	}

	if vm.Duration > 0 {
		return history.Save(history.NewEntry(p.ID, p.Endpoint, vm))
	}
	return nil
}
