// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/cadence-player/cadence/color"
	"github.com/cadence-player/cadence/constant"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/style"
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
	prefix := strings.ToUpper(constant.Cadence + "_")
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

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
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
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlaylistRepeat, false, "Start with repeat mode enabled")
	register(key.PlaylistRandom, false, "Start with random mode enabled")
	register(key.PlaylistStopAfter, false, "Stop playback after each track instead of advancing")
	register(key.PlaybackBackends, []string{
		`mplayer -really-quiet -input file={pipe} {file} :: ^https?://|\.(mp[1234]|ogg|oga|flac|spx|mp[cp+]|mod|xm|s3m|it|aiff|aif|au|wav|wma|m4a|m4b)$ :: time-mplayer :: 1`,
		`mpg123 -q -v -k {offset} {file} :: ^https?://|\.mp[123]$ :: frame :: 38.28`,
		`ogg123 -q -v -k {offset} {file} :: \.(ogg|oga|flac|spx)$ :: frame :: 1`,
		`mppdec --gain 2 --start {offset} {file} :: \.mp[cp+]$ :: frame-mpp :: 1`,
		`madplay -v --display-time=remaining -s {offset} {file} :: ^https?://|\.mp[123]$ :: time :: 1`,
		`mikmod -q -p0 {file} :: \.(mod|xm|fm|s3m|med|col|669|it|mtm)$ :: none :: 1`,
	}, "Ordered backend registry, first matching pattern wins.\nEach entry is \"command :: pattern :: parser :: fps\" where command may use the\n{file}, {offset} and {pipe} placeholders and parser is one of:\nframe, frame-mpp, time, time-mplayer, none")
	register(key.PlaybackSeekDebounceMs, 500, "Quiet window in milliseconds before a seek or track switch respawns the backend")
	register(key.PlaybackPollMs, 500, "Wake interval in milliseconds while a track is playing")
	register(key.PlaybackGraceMs, 2000, "Window in milliseconds after spawn during which an exit is retried once instead of treated as end-of-track")
	register(key.ControlEnable, true, "Create the remote-control named pipe and accept commands on it")
	register(key.MixerSetCommand, "amixer -q set {channel} {percent}%", "External command template used to set a mixer channel volume")
	register(key.MixerChannels, []string{"Master", "PCM"}, "Mixer channels cycled by the volume-toggle action, highest priority first")
	register(key.HistorySaveOnPlay, true, "Record finished tracks in the playback history")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
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
