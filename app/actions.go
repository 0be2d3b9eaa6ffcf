package app

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/control"
	"github.com/cadence-player/cadence/icon"
	"github.com/cadence-player/cadence/input"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/log"
	"github.com/cadence-player/cadence/mixer"
	"github.com/cadence-player/cadence/session"
	"github.com/cadence-player/cadence/track"
)

func (p *Player) onKey(k input.Key) {
	if p.pendingMacro {
		p.pendingMacro = false
		p.runMacro(string(rune(k)))
		return
	}
	ev := input.Translate(k)
	if ev.Action == input.ActionNone {
		return
	}
	p.Do(ev, "", -1, ev.Value)
}

// Do performs one action. arg carries the add path or macro name, channel
// the mixer channel (-1 for the currently selected one) and percent the
// absolute volume for ActionVolumeSet.
func (p *Player) Do(ev input.Event, arg string, channel, percent int) {
	switch ev.Action {
	case input.ActionQuit:
		p.quit = true

	case input.ActionPlay:
		p.play()
	case input.ActionPause:
		p.pause()
	case input.ActionStop:
		p.stop()
	case input.ActionNext:
		p.advance(1)
	case input.ActionPrev:
		p.advance(-1)
	case input.ActionSeekForward:
		p.seek(1)
	case input.ActionSeekBackward:
		p.seek(-1)

	case input.ActionToggleRepeat:
		p.toggleFlag(icon.Repeat, "repeat", p.Playlist.ToggleRepeat())
	case input.ActionToggleRandom:
		p.toggleFlag(icon.Random, "random", p.Playlist.ToggleRandom())
	case input.ActionToggleStopAfter:
		p.toggleFlag(icon.Stop, "stop after each track", p.Playlist.ToggleStopAfter())

	case input.ActionToggleTag:
		p.toggleTag()
	case input.ActionInvertTags:
		p.invertTags()
	case input.ActionDelete:
		p.deleteCurrent()
	case input.ActionDeleteTagged:
		n := p.Playlist.DeleteTagged(p.Playlist.Active())
		p.transient(fmt.Sprintf("Deleted %d", n))
		p.notifyPlaylist()
	case input.ActionClear:
		p.Playlist.Clear()
		p.transient("Playlist emptied")
		p.notifyPlaylist()
	case input.ActionMoveTaggedAfter:
		p.Playlist.MoveTagged(p.Playlist.Active(), true)
		p.notifyPlaylist()
	case input.ActionMoveTaggedBefore:
		p.Playlist.MoveTagged(p.Playlist.Active(), false)
		p.notifyPlaylist()
	case input.ActionShuffle:
		p.Playlist.Shuffle()
		p.transient("Shuffled")
		p.notifyPlaylist()
	case input.ActionSort:
		p.Playlist.Sort()
		p.transient("Sorted")
		p.notifyPlaylist()
	case input.ActionJumpToActive:
		p.jumpToActive()
	case input.ActionSavePlaylist:
		p.savePlaylist()
	case input.ActionAdd:
		p.add(arg)

	case input.ActionVolumeUp:
		p.volumeCue(1)
	case input.ActionVolumeDown:
		p.volumeCue(-1)
	case input.ActionVolumeSet:
		p.volumeSet(channel, percent)
	case input.ActionChannelCycle:
		if p.guardRestricted() {
			return
		}
		p.transient("Mixer channel: " + p.Mixer.Cycle())

	case input.ActionToggleCounter:
		if p.Callbacks.OnCounterToggled != nil {
			p.Callbacks.OnCounterToggled()
		}
		if p.session != nil && p.Callbacks.OnPositionChanged != nil {
			p.Callbacks.OnPositionChanged(p.session.Position())
		}
	case input.ActionRefresh:
		if p.Callbacks.RebuildSurfaces != nil {
			p.Callbacks.RebuildSurfaces()
		}
	case input.ActionMacro:
		if arg != "" {
			p.runMacro(arg)
		} else {
			p.pendingMacro = true
		}
	}
}

// play starts the active track from the beginning, falling back to the
// first track of the playlist.
func (p *Player) play() {
	t := p.Playlist.Active()
	if t == nil && p.Playlist.Len() > 0 {
		t = p.Playlist.Tracks()[0]
	}
	if t == nil {
		p.transient("Playlist is empty")
		return
	}
	p.playTrack(t)
}

func (p *Player) playTrack(t *track.Track) {
	if p.session != nil {
		p.session.Stop()
		p.session = nil
	}

	profile := p.Registry.Match(t.Path)
	if profile == nil {
		p.transient("No player for " + t.Name())
		log.Errorf("no backend claims %s", t.Path)
		return
	}

	s := session.New(p.runner, profile, t.Path)
	if err := s.Start(0); err != nil {
		p.transient(err.Error())
		log.Errorf("start %s: %v", t.Path, err)
		return
	}

	p.session = s
	p.armProgress(s)
	p.Playlist.Activate(t)
	p.defaultStatus()
	p.notifyPlaylist()
}

func (p *Player) pause() {
	if p.session == nil {
		return
	}
	p.session.TogglePause()
	p.defaultStatus()
}

func (p *Player) stop() {
	if p.session == nil {
		return
	}
	p.session.Stop()
	p.session = nil
	p.resetPosition()
	p.defaultStatus()
}

// advance moves through the playlist and plays what it lands on. Landing
// nowhere stops playback.
func (p *Player) advance(direction int) {
	t := p.Playlist.Advance(direction)
	if t == nil {
		if p.session != nil {
			p.session.Stop()
			p.session = nil
			p.resetPosition()
		}
		p.transient("No more tracks")
		return
	}
	p.playTrack(t)
}

// seek accumulates one seek step and re-arms the debounce timer, so a held
// key turns into a single player restart at the final offset.
func (p *Player) seek(direction int) {
	s := p.session
	if s == nil {
		return
	}
	s.SeekRelative(direction)

	if p.seekArmed {
		p.Scheduler.Cancel(p.seekTimer)
	}
	p.seekArmed = true
	p.seekTimer = p.Scheduler.Add(p.seekDebounce, func() {
		p.seekArmed = false
		if p.session != s {
			return
		}
		if err := s.ApplySeek(); err != nil {
			p.transient(err.Error())
			log.Errorf("seek: %v", err)
		}
	})

	if p.Callbacks.OnPositionChanged != nil {
		p.Callbacks.OnPositionChanged(s.Position())
	}
}

func (p *Player) toggleFlag(ic icon.Icon, name string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	p.transient(strings.TrimSpace(fmt.Sprintf("%s %s %s", icon.Get(ic), name, state)))
	p.notifyPlaylist()
}

func (p *Player) toggleTag() {
	t := p.Playlist.Active()
	if t == nil {
		return
	}
	t.SetTagged(!t.Tagged())
	if !t.Tagged() {
		p.Playlist.Untag(t)
	}
	p.notifyPlaylist()
}

func (p *Player) invertTags() {
	for _, t := range p.Playlist.Tracks() {
		t.SetTagged(!t.Tagged())
		if !t.Tagged() {
			p.Playlist.Untag(t)
		}
	}
	p.notifyPlaylist()
}

func (p *Player) deleteCurrent() {
	t := p.Playlist.Active()
	if t == nil {
		return
	}
	if p.session != nil && p.session.Path() == t.Path {
		p.stop()
	}
	p.Playlist.Delete(t)
	p.notifyPlaylist()
}

func (p *Player) jumpToActive() {
	t := p.Playlist.Active()
	if t == nil {
		p.transient("Nothing is active")
		return
	}
	p.transient(fmt.Sprintf("%d/%d %s", p.Playlist.ActiveIndex()+1, p.Playlist.Len(), t.Display()))
}

func (p *Player) savePlaylist() {
	if p.guardRestricted() {
		return
	}
	if err := p.Playlist.Save(p.savePath); err != nil {
		p.transient(err.Error())
		log.Errorf("save playlist: %v", err)
		return
	}
	p.transient("Saved " + p.savePath)
}

func (p *Player) add(arg string) {
	if arg == "" {
		return
	}
	added, err := p.AddPath(arg)
	if err != nil {
		p.transient(err.Error())
		return
	}
	p.transient(fmt.Sprintf("Added %d", added))
	p.notifyPlaylist()
}

func (p *Player) volumeCue(direction int) {
	if p.guardRestricted() {
		return
	}
	if err := p.Mixer.Cue(direction * mixer.CueStep); err != nil {
		return
	}
	p.transient(fmt.Sprintf("%s %d%%", p.Mixer.Channel(), p.Mixer.Level()))
}

func (p *Player) volumeSet(channel, percent int) {
	if p.guardRestricted() {
		return
	}
	var err error
	if channel < 0 {
		err = p.Mixer.Set(percent)
	} else {
		err = p.Mixer.SetChannel(channel, percent)
	}
	if err != nil {
		p.transient(err.Error())
		return
	}
	p.transient(fmt.Sprintf("%s %d%%", p.Mixer.Channel(), p.Mixer.Level()))
}

// runMacro expands a configured macro into remote-command lines and plays
// them back. Macros cannot invoke macros.
func (p *Player) runMacro(name string) {
	if p.inMacro {
		return
	}
	body := viper.GetString(key.MacrosPrefix + "." + name)
	if body == "" {
		p.transient("No macro named " + name)
		return
	}

	p.inMacro = true
	defer func() { p.inMacro = false }()

	for _, line := range strings.Split(body, ";") {
		cmd := control.Parse(line)
		if cmd.Err != nil {
			p.transient(cmd.Err.Error())
			continue
		}
		if cmd.Action == input.ActionNone || cmd.Action == input.ActionMacro {
			continue
		}
		p.Do(input.Event{Action: cmd.Action}, cmd.Arg, cmd.Channel, cmd.Percent)
	}
}

func (p *Player) guardRestricted() bool {
	if p.restricted {
		p.transient("Restricted mode")
		return true
	}
	return false
}
