// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Pitchplay + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.APIEndpoint, "", "Base URL of the pitch backend.\nStreams are requested from {endpoint}/"+constant.StreamPath+"/{id}")
	register(key.PlayerMaxRetries, 4, "Load attempts per source before the failure is reported")
	register(key.PlayerRetryDelay, 4*time.Second, "Fixed delay between automatic reload attempts")
	register(key.PlayerAutoplayAttempts, 2, "Automatic play attempts before waiting for an explicit play")
	register(key.PlayerAdaptive, true, "Use the built-in adaptive HLS client.\nWhen false the stream URL is handed to mpv directly")
	register(key.PlayerMPVPath, "mpv", "Path to the mpv executable")
	register(key.ControlsHideDelay, 2*time.Second, "Idle time before the controls overlay hides during playback")
	register(key.HLSWorkers, 3, "Segments fetched ahead in the background")
	register(key.HLSLowLatency, true, "Reload live playlists at half the target duration")
	register(key.HLSBackBuffer, 90*time.Second, "Played media kept buffered behind the playhead")
	register(key.HLSSegmentRetries, 2, "Retries for a single segment before the stream is considered broken")
	register(key.HLSRequestsPerSecond, 20.0, "Upper bound for requests per second sent to the backend")
	register(key.NetworkImpersonateTLS, false, "Use a browser TLS fingerprint for backend connections")
	register(key.HistorySave, true, "Remember played pitches and watch progress")
	register(key.SearchShowSuggestions, true, "Suggest recently played identifiers in the prompt")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
