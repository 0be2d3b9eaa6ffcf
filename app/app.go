// Package app is the event loop tying everything together: it owns the
// playlist, the playback session, the scheduler and the mixer, consumes key
// presses, player output and remote commands, and mutates all player state
// from a single goroutine.
package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/backend"
	"github.com/cadence-player/cadence/control"
	"github.com/cadence-player/cadence/history"
	"github.com/cadence-player/cadence/input"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/log"
	"github.com/cadence-player/cadence/mixer"
	"github.com/cadence-player/cadence/playlist"
	"github.com/cadence-player/cadence/session"
	"github.com/cadence-player/cadence/timer"
	"github.com/cadence-player/cadence/ui"
)

// statusTTL is how long a transient status stays up before the default
// status returns.
const statusTTL = 2 * time.Second

// dirCheckEvery throttles the directory freshness hook.
const dirCheckEvery = 2 * time.Second

// progressEvery is how often the retained output chunk is re-parsed, so
// backends that print nothing still animate the progress indicator.
const progressEvery = time.Second

// Callbacks are the presentation hooks the loop fires. All of them run on
// the loop goroutine; nil members are skipped.
type Callbacks struct {
	// OnPositionChanged fires when the playback position moved.
	OnPositionChanged func(backend.Position)

	// OnStatusChanged fires when the status line should change. For the
	// default status message is the active track name; transient messages
	// replace it until their TTL runs out.
	OnStatusChanged func(state ui.State, message string, transient bool)

	// OnPlaylistChanged fires after any playlist mutation.
	OnPlaylistChanged func()

	// RebuildSurfaces asks the presentation to redraw from scratch.
	RebuildSurfaces func()

	// OnDirectoryCheck fires at most every two seconds so listings backed
	// by the filesystem can notice external changes.
	OnDirectoryCheck func()

	// OnCounterToggled fires when the elapsed/remaining counter flips.
	OnCounterToggled func()
}

// Player is the orchestrator. Except for New and Run, its methods must only
// be called from the loop goroutine.
type Player struct {
	Playlist  *playlist.Playlist
	Registry  backend.Registry
	Scheduler *timer.Scheduler
	Mixer     *mixer.Mixer
	Callbacks Callbacks

	runner     session.Runner
	session    *session.Session
	restricted bool
	quit       bool

	keys    <-chan input.Key
	stdout  <-chan []byte
	stderr  <-chan []byte
	remote  <-chan control.Command
	signals <-chan os.Signal

	seekDebounce time.Duration
	pollEvery    time.Duration

	seekTimer   timer.ID
	seekArmed   bool
	statusTimer timer.ID
	statusArmed bool

	pendingMacro bool
	inMacro      bool

	savePath     string
	lastDirCheck time.Time
}

// New assembles a player around the given process runner. Playlist flags
// and timing knobs come from the configuration.
func New(runner session.Runner) *Player {
	registry, errs := backend.FromConfig()
	for _, err := range errs {
		log.Warnf("config: %v", err)
	}

	pl := playlist.New()
	pl.Seed(time.Now().UnixNano())
	if viper.GetBool(key.PlaylistRepeat) {
		pl.ToggleRepeat()
	}
	if viper.GetBool(key.PlaylistRandom) {
		pl.ToggleRandom()
	}
	if viper.GetBool(key.PlaylistStopAfter) {
		pl.ToggleStopAfter()
	}

	return &Player{
		Playlist:     pl,
		Registry:     registry,
		Scheduler:    timer.New(),
		Mixer:        mixer.New(),
		runner:       runner,
		seekDebounce: time.Duration(viper.GetInt(key.PlaybackSeekDebounceMs)) * time.Millisecond,
		pollEvery:    time.Duration(viper.GetInt(key.PlaybackPollMs)) * time.Millisecond,
		savePath:     "cadence.m3u",
	}
}

// SetRestricted disables shell-outs and filesystem writes.
func (p *Player) SetRestricted(value bool) { p.restricted = value }

// Restricted reports whether shell-outs and writes are disabled.
func (p *Player) Restricted() bool { return p.restricted }

// SetKeySource attaches the decoded keyboard channel.
func (p *Player) SetKeySource(keys <-chan input.Key) { p.keys = keys }

// SetRemoteSource attaches the remote-control command channel.
func (p *Player) SetRemoteSource(remote <-chan control.Command) { p.remote = remote }

// SetSignalSource attaches a process-signal channel.
func (p *Player) SetSignalSource(sigs <-chan os.Signal) { p.signals = sigs }

// ListenSignals subscribes the loop to process signals: interrupt, hangup
// and terminate quit, a terminal resize rebuilds the presentation.
func (p *Player) ListenSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, notifiedSignals()...)
	p.signals = ch
}

// SetOutputSources attaches the player stdout and stderr chunk channels.
func (p *Player) SetOutputSources(stdout, stderr <-chan []byte) {
	p.stdout = stdout
	p.stderr = stderr
}

// Run blocks in the event loop until quit. Each turn waits at exactly one
// select, bounded by the scheduler's next deadline and capped by the poll
// interval while a player runs, then services every ready source in
// priority order.
func (p *Player) Run() {
	p.defaultStatus()
	for !p.quit {
		p.wait()
		p.drain()
		p.pollPlayer()
		p.checkDirectories()
	}
	p.shutdown()
}

// Quit makes Run return after the current turn.
func (p *Player) Quit() { p.quit = true }

func (p *Player) wait() {
	next, idle := p.Scheduler.Tick(time.Now())

	var wake <-chan time.Time
	if p.playing() && (idle || next > p.pollEvery) {
		next, idle = p.pollEvery, false
	}
	if !idle {
		wake = time.After(next)
	}

	// The select wakes on whichever source fires first; every source the
	// received one outranks gets re-checked before it is serviced, so the
	// fixed priority holds even for simultaneously-ready sources.
	select {
	case sig, ok := <-p.signals:
		p.sourceSignal(sig, ok)
	case k, ok := <-p.keys:
		p.drainSignals()
		p.sourceKey(k, ok)
	case chunk, ok := <-p.stderr:
		p.drainSignals()
		p.drainKeys()
		p.sourceChunk(chunk, ok, &p.stderr)
	case chunk, ok := <-p.stdout:
		p.drainSignals()
		p.drainKeys()
		p.drainStderr()
		p.sourceChunk(chunk, ok, &p.stdout)
	case cmd, ok := <-p.remote:
		p.drainSignals()
		p.drainKeys()
		p.drainStderr()
		p.drainStdout()
		p.sourceRemote(cmd, ok)
	case <-wake:
	}
}

// drain services whatever became ready while the turn ran, always giving
// signals and the user priority over the player and the player over remote
// writers.
func (p *Player) drain() {
	for !p.quit {
		select {
		case sig, ok := <-p.signals:
			p.sourceSignal(sig, ok)
			continue
		default:
		}
		select {
		case k, ok := <-p.keys:
			p.sourceKey(k, ok)
			continue
		default:
		}
		select {
		case chunk, ok := <-p.stderr:
			p.sourceChunk(chunk, ok, &p.stderr)
			continue
		default:
		}
		select {
		case chunk, ok := <-p.stdout:
			p.sourceChunk(chunk, ok, &p.stdout)
			continue
		default:
		}
		select {
		case cmd, ok := <-p.remote:
			p.sourceRemote(cmd, ok)
			continue
		default:
		}
		return
	}
}

func (p *Player) drainSignals() {
	for {
		select {
		case sig, ok := <-p.signals:
			p.sourceSignal(sig, ok)
		default:
			return
		}
	}
}

func (p *Player) drainKeys() {
	for {
		select {
		case k, ok := <-p.keys:
			p.sourceKey(k, ok)
		default:
			return
		}
	}
}

func (p *Player) drainStderr() {
	for {
		select {
		case chunk, ok := <-p.stderr:
			p.sourceChunk(chunk, ok, &p.stderr)
		default:
			return
		}
	}
}

func (p *Player) drainStdout() {
	for {
		select {
		case chunk, ok := <-p.stdout:
			p.sourceChunk(chunk, ok, &p.stdout)
		default:
			return
		}
	}
}

func (p *Player) sourceKey(k input.Key, ok bool) {
	if !ok {
		p.keys = nil
		p.quit = true
		return
	}
	p.onKey(k)
}

func (p *Player) sourceChunk(chunk []byte, ok bool, src *<-chan []byte) {
	if !ok {
		*src = nil
		return
	}
	if p.session == nil || !p.session.Consume(chunk) {
		return
	}
	if p.Callbacks.OnPositionChanged != nil {
		p.Callbacks.OnPositionChanged(p.session.Position())
	}
}

func (p *Player) sourceSignal(sig os.Signal, ok bool) {
	if !ok {
		p.signals = nil
		return
	}
	if isResize(sig) {
		if p.Callbacks.RebuildSurfaces != nil {
			p.Callbacks.RebuildSurfaces()
		}
		return
	}
	log.Infof("caught %v, quitting", sig)
	p.quit = true
}

func (p *Player) sourceRemote(cmd control.Command, ok bool) {
	if !ok {
		p.remote = nil
		return
	}
	if cmd.Err != nil {
		p.transient(cmd.Err.Error())
		return
	}
	p.Do(input.Event{Action: cmd.Action}, cmd.Arg, cmd.Channel, cmd.Percent)
}

// pollPlayer notices the player exiting on its own: within the grace
// window the session respawns it, otherwise the track is over.
func (p *Player) pollPlayer() {
	s := p.session
	if s == nil || s.Stopped() || p.runner.Running() {
		return
	}
	if s.HandleExit(time.Now()) {
		return
	}
	p.finishTrack()
}

// finishTrack records the finished track and moves on, honoring the
// stop-after-each flag.
func (p *Player) finishTrack() {
	s := p.session
	p.session = nil

	if viper.GetBool(key.HistorySaveOnPlay) && !p.restricted {
		t := p.Playlist.Active()
		name := s.Path()
		if t != nil {
			name = t.Display()
		}
		pos := s.Position()
		if err := history.Save(name, s.Path(), pos.Elapsed, pos.Total); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	p.resetPosition()

	if p.Playlist.StopAfter() {
		p.defaultStatus()
		return
	}
	p.advance(1)
}

// resetPosition zeroes the displayed counter and progress. Fired whenever
// playback ends without a successor track.
func (p *Player) resetPosition() {
	if p.Callbacks.OnPositionChanged != nil {
		p.Callbacks.OnPositionChanged(backend.Position{})
	}
}

// armProgress schedules the once-a-second re-parse of the session's
// retained output. The entry dies with the session instead of being
// canceled: it simply stops re-adding itself once replaced.
func (p *Player) armProgress(s *session.Session) {
	p.Scheduler.Add(progressEvery, func() {
		if p.session != s || s.Stopped() {
			return
		}
		if s.Reparse() && p.Callbacks.OnPositionChanged != nil {
			p.Callbacks.OnPositionChanged(s.Position())
		}
		p.armProgress(s)
	})
}

func (p *Player) checkDirectories() {
	if p.Callbacks.OnDirectoryCheck == nil {
		return
	}
	if time.Since(p.lastDirCheck) < dirCheckEvery {
		return
	}
	p.lastDirCheck = time.Now()
	p.Callbacks.OnDirectoryCheck()
}

func (p *Player) playing() bool {
	return p.session != nil && !p.session.Stopped()
}

func (p *Player) shutdown() {
	if p.session != nil {
		p.session.Stop()
	}
}

// state is the transport state shown to the presentation.
func (p *Player) state() ui.State {
	switch {
	case !p.playing():
		return ui.Stopped
	case p.runner.Paused():
		return ui.Paused
	default:
		return ui.Playing
	}
}

// transient shows a short-lived status and schedules the default one back.
func (p *Player) transient(message string) {
	if p.statusArmed {
		p.Scheduler.Cancel(p.statusTimer)
	}
	p.statusArmed = true
	p.statusTimer = p.Scheduler.Add(statusTTL, func() {
		p.statusArmed = false
		p.defaultStatus()
	})
	p.notifyStatus(message, true)
}

func (p *Player) defaultStatus() {
	name := ""
	if t := p.Playlist.Active(); t != nil {
		name = t.Display()
	}
	p.notifyStatus(name, false)
}

func (p *Player) notifyStatus(message string, transient bool) {
	if p.Callbacks.OnStatusChanged != nil {
		p.Callbacks.OnStatusChanged(p.state(), message, transient)
	}
}

func (p *Player) notifyPlaylist() {
	if p.Callbacks.OnPlaylistChanged != nil {
		p.Callbacks.OnPlaylistChanged()
	}
}
