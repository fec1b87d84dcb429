// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Pitchplay)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Pitchplay)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return Validate()
}

// Validate rejects values the playback engine cannot run with.
// An empty endpoint is allowed: the player reports a missing source instead.
func Validate() error {
	if endpoint := viper.GetString(key.APIEndpoint); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("%s: %w", key.APIEndpoint, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: unsupported scheme %q", key.APIEndpoint, u.Scheme)
		}
	}

	positive := map[string]int{
		key.PlayerMaxRetries:       viper.GetInt(key.PlayerMaxRetries),
		key.PlayerAutoplayAttempts: viper.GetInt(key.PlayerAutoplayAttempts),
		key.HLSWorkers:             viper.GetInt(key.HLSWorkers),
	}
	for k, v := range positive {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", k, v)
		}
	}

	if viper.GetDuration(key.ControlsHideDelay) <= 0 {
		return fmt.Errorf("%s must be positive", key.ControlsHideDelay)
	}

	if viper.GetDuration(key.PlayerRetryDelay) < 0 {
		return fmt.Errorf("%s must not be negative", key.PlayerRetryDelay)
	}

	return nil
}
