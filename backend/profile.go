package backend

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/where"
)

// Profile describes one external player: how to invoke it, which files it
// claims, how to read its output and how its seek offsets are expressed.
type Profile struct {
	// Command is the invocation template, split shell-style. The tokens
	// {file}, {offset} and {pipe} are substituted per spawn.
	Command []string

	// Pattern selects the files this player handles, matched
	// case-insensitively against the full track path.
	Pattern *regexp.Regexp

	// ParserKind names the output strategy, one of the Parser* constants.
	ParserKind string

	// FPS converts a position in seconds into the player's {offset} unit.
	FPS float64
}

// Name is the player executable without its directory.
func (p *Profile) Name() string {
	return filepath.Base(p.Command[0])
}

// Matches reports whether this profile claims the given track path.
func (p *Profile) Matches(path string) bool {
	return p.Pattern.MatchString(path)
}

// NewParser builds a fresh parser instance for one playback session.
func (p *Profile) NewParser() Parser {
	return newParser(p.ParserKind)
}

// Seekable reports whether restarting at an offset moves the position.
// Profiles without a position parser have nothing to restart from.
func (p *Profile) Seekable() bool {
	return p.ParserKind != ParserNone
}

// ControlPipe returns the path of the player's command fifo, or "" when the
// profile is driven purely by signals and respawns.
func (p *Profile) ControlPipe() string {
	for _, tok := range p.Command {
		if strings.Contains(tok, "{pipe}") {
			return where.BackendPipe(p.Name())
		}
	}
	return ""
}

// Argv renders the invocation for a track starting at offset seconds.
func (p *Profile) Argv(file string, offset float64) []string {
	frames := strconv.Itoa(int(offset * p.FPS))
	argv := make([]string, len(p.Command))
	for i, tok := range p.Command {
		tok = strings.ReplaceAll(tok, "{file}", file)
		tok = strings.ReplaceAll(tok, "{offset}", frames)
		tok = strings.ReplaceAll(tok, "{pipe}", where.BackendPipe(p.Name()))
		argv[i] = tok
	}
	return argv
}

// ParseProfile decodes a registry entry of the form
//
//	command :: pattern :: parser :: fps
//
// as stored under the playback.backends configuration key.
func ParseProfile(entry string) (*Profile, error) {
	parts := strings.Split(entry, "::")
	if len(parts) != 4 {
		return nil, fmt.Errorf("backend entry %q: want 4 fields, got %d", entry, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	command, err := shellquote.Split(parts[0])
	if err != nil {
		return nil, fmt.Errorf("backend entry %q: %w", entry, err)
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("backend entry %q: empty command", entry)
	}

	pattern, err := regexp.Compile("(?i)" + parts[1])
	if err != nil {
		return nil, fmt.Errorf("backend entry %q: %w", entry, err)
	}

	switch parts[2] {
	case ParserFrame, ParserFrameMpp, ParserTime, ParserTimeMplayer, ParserNone:
	default:
		return nil, fmt.Errorf("backend entry %q: unknown parser %q", entry, parts[2])
	}

	fps, err := strconv.ParseFloat(parts[3], 64)
	if err != nil || fps <= 0 {
		return nil, fmt.Errorf("backend entry %q: bad fps %q", entry, parts[3])
	}

	return &Profile{
		Command:    command,
		Pattern:    pattern,
		ParserKind: parts[2],
		FPS:        fps,
	}, nil
}

// Registry is the ordered list of player profiles. Earlier entries win when
// several claim the same file.
type Registry []*Profile

// FromConfig builds the registry from the playback.backends key, skipping
// entries that fail to parse.
func FromConfig() (Registry, []error) {
	var (
		reg  Registry
		errs []error
	)
	for _, entry := range viper.GetStringSlice(key.PlaybackBackends) {
		profile, err := ParseProfile(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg = append(reg, profile)
	}
	return reg, errs
}

// Match returns the first profile claiming the given path, or nil.
func (r Registry) Match(path string) *Profile {
	for _, p := range r {
		if p.Matches(path) {
			return p
		}
	}
	return nil
}
