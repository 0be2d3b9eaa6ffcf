// Package mixer adjusts playback volume by shelling out to an external
// mixer command, one invocation per change.
package mixer

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/log"
	"github.com/cadence-player/cadence/util"
)

// CueStep is how far the volume-up and volume-down actions move, in percent.
const CueStep = 5

// Mixer tracks one level per configured channel and applies changes through
// the configured command template. Levels start at 50 because the external
// mixer cannot be queried portably.
type Mixer struct {
	template []string
	channels []string
	levels   []int
	index    int

	// run executes one rendered mixer command. Swappable in tests.
	run func(argv []string) error
}

// New builds the mixer from the mixer.set_command and mixer.channels keys.
func New() *Mixer {
	channels := viper.GetStringSlice(key.MixerChannels)
	if len(channels) == 0 {
		channels = []string{"Master"}
	}

	levels := make([]int, len(channels))
	for i := range levels {
		levels[i] = 50
	}

	template, err := shellquote.Split(viper.GetString(key.MixerSetCommand))
	if err != nil {
		log.Warnf("mixer: bad command template: %v", err)
		template = nil
	}

	return &Mixer{
		template: template,
		channels: channels,
		levels:   levels,
		run: func(argv []string) error {
			return exec.Command(argv[0], argv[1:]...).Run()
		},
	}
}

// Channel is the name of the currently selected channel.
func (m *Mixer) Channel() string { return m.channels[m.index] }

// Level is the last level set on the current channel.
func (m *Mixer) Level() int { return m.levels[m.index] }

// Cycle selects the next configured channel and returns its name.
func (m *Mixer) Cycle() string {
	m.index = (m.index + 1) % len(m.channels)
	return m.Channel()
}

// Set moves the current channel to the given percentage, clamped to 0-100.
func (m *Mixer) Set(percent int) error {
	return m.SetChannel(m.index, percent)
}

// SetChannel moves the given channel to the given percentage. Channel
// indexes outside the configured list are rejected.
func (m *Mixer) SetChannel(index, percent int) error {
	if index < 0 || index >= len(m.channels) {
		return fmt.Errorf("no mixer channel %d", index)
	}
	percent = util.Clamp(percent, 0, 100)

	argv := make([]string, len(m.template))
	for i, tok := range m.template {
		tok = strings.ReplaceAll(tok, "{channel}", m.channels[index])
		tok = strings.ReplaceAll(tok, "{percent}", strconv.Itoa(percent))
		argv[i] = tok
	}
	if len(argv) == 0 {
		return fmt.Errorf("mixer command is not configured")
	}

	if err := m.run(argv); err != nil {
		log.Warnf("mixer: %v: %v", argv, err)
		return err
	}
	m.levels[index] = percent
	return nil
}

// Cue nudges the current channel by delta percent.
func (m *Mixer) Cue(delta int) error {
	return m.Set(m.Level() + delta)
}
