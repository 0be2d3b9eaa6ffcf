// Package control implements the remote-control channel: a named pipe other
// processes write textual commands into, one per line.
package control

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/cadence-player/cadence/filesystem"
	"github.com/cadence-player/cadence/input"
	"github.com/cadence-player/cadence/log"
)

// Command is one parsed remote command. Err is set for lines whose verb was
// recognized but whose arguments were not; the player surfaces those as a
// transient status instead of failing.
type Command struct {
	Action  input.Action
	Arg     string
	Channel int
	Percent int
	Err     error
}

var verbs = map[string]input.Action{
	"pause":    input.ActionPause,
	"next":     input.ActionNext,
	"prev":     input.ActionPrev,
	"forward":  input.ActionSeekForward,
	"backward": input.ActionSeekBackward,
	"play":     input.ActionPlay,
	"stop":     input.ActionStop,
	"volume":   input.ActionVolumeSet,
	"add":      input.ActionAdd,
	"empty":    input.ActionClear,
	"macro":    input.ActionMacro,
	"quit":     input.ActionQuit,
}

// Parse decodes one command line. Unknown verbs come back as ActionNone
// without an error, remote writers may speak newer dialects.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}

	action, ok := verbs[fields[0]]
	if !ok {
		log.Debugf("remote: ignoring unknown verb %q", fields[0])
		return Command{}
	}

	switch action {
	case input.ActionVolumeSet:
		if len(fields) != 3 {
			return Command{Err: fmt.Errorf("volume wants <channel> <percent>, got %q", line)}
		}
		channel, err := cast.ToIntE(fields[1])
		if err != nil {
			return Command{Err: fmt.Errorf("volume channel %q is not a number", fields[1])}
		}
		percent, err := cast.ToIntE(fields[2])
		if err != nil || percent < 0 || percent > 100 {
			return Command{Err: fmt.Errorf("volume percent %q is not 0-100", fields[2])}
		}
		return Command{Action: action, Channel: channel, Percent: percent}

	case input.ActionAdd:
		arg := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if arg == "" {
			return Command{Err: fmt.Errorf("add wants a path or URL")}
		}
		return Command{Action: action, Arg: arg}

	case input.ActionMacro:
		if len(fields) != 2 {
			return Command{Err: fmt.Errorf("macro wants exactly one name, got %q", line)}
		}
		return Command{Action: action, Arg: fields[1]}

	default:
		return Command{Action: action}
	}
}

// Listen creates the fifo at path and delivers parsed commands on the
// returned channel. The reader reopens the pipe after every writer
// disconnect, so the channel stays live for the whole run.
func Listen(path string) (<-chan Command, error) {
	if err := filesystem.MakeFifo(path); err != nil {
		return nil, err
	}

	ch := make(chan Command)
	go func() {
		defer close(ch)
		for {
			// Blocks until some process opens the pipe for writing.
			f, err := os.OpenFile(path, os.O_RDONLY, 0)
			if err != nil {
				log.Warnf("remote: open %s: %v", path, err)
				return
			}
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				ch <- Parse(line)
			}
			f.Close()
		}
	}()
	return ch, nil
}
