// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playlist Behavior - these keys define the startup state of the playlist flags.
const (
	PlaylistRepeat    = "playlist.repeat"
	PlaylistRandom    = "playlist.random"
	PlaylistStopAfter = "playlist.stop_after_each"
)

// Playback Engine - these keys govern backend selection and the seek/respawn machinery.
const (
	PlaybackBackends       = "playback.backends"
	PlaybackSeekDebounceMs = "playback.seek_debounce_ms"
	PlaybackPollMs         = "playback.poll_ms"
	PlaybackGraceMs        = "playback.grace_ms"
)

// Remote Control - these keys configure the named-pipe command channel.
const (
	ControlEnable = "control.enable"
)

// Volume Mixer - these keys configure the external mixer command templates.
const (
	MixerSetCommand = "mixer.set_command"
	MixerChannels   = "mixer.channels"
)

// History Tracking - these keys configure the persistence of playback records.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-interactive application behavior.
const (
	CliColored = "cli.colored"
)

// Macros - the prefix under which named action sequences are configured.
const (
	MacrosPrefix = "macros"
)
