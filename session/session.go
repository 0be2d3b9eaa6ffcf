// Package session runs one track through one player profile: it spawns the
// player, folds its output into a playback position, accumulates seek steps
// and decides what to do when the player exits.
package session

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/backend"
	"github.com/cadence-player/cadence/filesystem"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/log"
	"github.com/cadence-player/cadence/util"
)

// Runner is the slice of the process supervisor a session drives. It exists
// so tests can count spawns without forking real players.
type Runner interface {
	Spawn(argv []string) error
	Stop()
	TogglePause() bool
	Paused() bool
	Running() bool
	StartedAt() time.Time
}

// relativeSeekFraction is the share of the track length one seek step moves.
const relativeSeekFraction = 0.002

// Session is the playback state of a single track. It is owned by the event
// loop goroutine and is not safe for concurrent use.
type Session struct {
	sup     Runner
	profile *backend.Profile
	parser  backend.Parser
	path    string

	elapsed float64
	total   float64

	// buf retains the latest output chunk for periodic re-parsing.
	buf []byte

	// step accumulates consecutive same-direction seeks so holding the key
	// accelerates. pending marks a seek not yet applied to the player.
	step    float64
	pending bool

	retried bool
	stopped bool
}

// New prepares a session for the given track path. The player is not spawned
// until Start.
func New(sup Runner, profile *backend.Profile, path string) *Session {
	return &Session{
		sup:     sup,
		profile: profile,
		parser:  profile.NewParser(),
		path:    path,
	}
}

// Path is the track path this session plays.
func (s *Session) Path() string { return s.path }

// Profile is the player profile this session runs under.
func (s *Session) Profile() *backend.Profile { return s.profile }

// Start spawns the player at the given offset in seconds. Profiles with a
// command fifo get the fifo created first.
func (s *Session) Start(offset float64) error {
	if pipe := s.profile.ControlPipe(); pipe != "" {
		if err := filesystem.MakeFifo(pipe); err != nil {
			return fmt.Errorf("control fifo %s: %w", pipe, err)
		}
	}

	if err := s.sup.Spawn(s.profile.Argv(s.path, offset)); err != nil {
		return err
	}

	s.elapsed = offset
	s.buf = nil
	s.stopped = false
	return nil
}

// Stop terminates the player. The session remembers it was stopped so a
// subsequent exit is not mistaken for the track finishing.
func (s *Session) Stop() {
	s.stopped = true
	s.sup.Stop()
}

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool { return s.stopped }

// TogglePause suspends or resumes the player and returns the paused state.
func (s *Session) TogglePause() bool { return s.sup.TogglePause() }

// Paused reports whether the player is suspended.
func (s *Session) Paused() bool { return s.sup.Paused() }

// Position is the current playback position.
func (s *Session) Position() backend.Position {
	return backend.Position{Elapsed: s.elapsed, Total: s.total}
}

// Consume folds the latest chunk of player output into the position and
// reports whether the position changed. Chunks arriving while a seek is
// pending are dropped, they describe where the player was before the seek.
func (s *Session) Consume(chunk []byte) bool {
	if s.pending {
		return false
	}
	s.buf = chunk
	pos, ok := s.parser.Extract(chunk).Get()
	if !ok {
		return false
	}
	changed := pos.Elapsed != s.elapsed || pos.Total != s.total
	s.elapsed = pos.Elapsed
	s.total = pos.Total
	return changed
}

// Reparse folds the retained output chunk into the position again. For
// players whose output carries no position the parser fabricates one tick
// per call, so a quiet backend still animates.
func (s *Session) Reparse() bool {
	return s.Consume(s.buf)
}

// SeekRelative moves the position by one step in the given direction
// (+1 forward, -1 backward). Consecutive seeks in one direction grow the
// step, a reversal resets it. Unseekable profiles ignore seeks.
func (s *Session) SeekRelative(direction int) {
	if !s.profile.Seekable() {
		return
	}
	d := float64(direction) * s.total * relativeSeekFraction
	if s.step*d <= 0 {
		s.step = d
	} else {
		s.step += d
	}
	s.elapsed = util.Clamp(s.elapsed+s.step, 0, s.total)
	s.pending = true
}

// SeekTo jumps to an absolute offset in seconds. Negative offsets count from
// the end of the track.
func (s *Session) SeekTo(offset float64) {
	if !s.profile.Seekable() {
		return
	}
	if offset < 0 {
		offset = s.total + offset
	}
	s.elapsed = util.Clamp(offset, 0, s.total)
	s.step = 0
	s.pending = true
}

// SeekPending reports whether a seek is waiting to be applied.
func (s *Session) SeekPending() bool { return s.pending }

// ApplySeek commits the pending position to the player: through the command
// fifo when the profile has one, otherwise by respawning at the new offset.
func (s *Session) ApplySeek() error {
	if !s.pending {
		return nil
	}
	s.pending = false
	s.step = 0
	s.buf = nil

	if pipe := s.profile.ControlPipe(); pipe != "" && s.sup.Running() {
		cmd := fmt.Sprintf("seek %d 2\n", int(s.elapsed))
		if err := filesystem.WriteFifo(pipe, cmd); err == nil {
			return nil
		}
		log.Warnf("fifo seek failed, respawning %s", s.profile.Name())
	}
	return s.Start(s.elapsed)
}

// ExitGrace is how soon after a spawn an exit is treated as a startup
// failure worth one retry rather than the track finishing. The
// playback.grace_ms key overrides it.
const ExitGrace = 2 * time.Second

func exitGrace() time.Duration {
	if ms := viper.GetInt(key.PlaybackGraceMs); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return ExitGrace
}

// HandleExit decides what an observed player exit means. It returns true
// when the session respawned the player and playback continues, false when
// the track is over and the playlist should advance. A player dying within
// the grace window is respawned once at the same offset.
func (s *Session) HandleExit(now time.Time) bool {
	if s.stopped {
		return false
	}
	if !s.retried && now.Sub(s.sup.StartedAt()) < exitGrace() {
		s.retried = true
		log.Warnf("%s exited right after spawn, retrying once", s.profile.Name())
		if err := s.Start(s.elapsed); err == nil {
			return true
		}
	}
	return false
}
