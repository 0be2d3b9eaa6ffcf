// Package ui renders the player's two status lines: what is happening and
// where in the track it is happening.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/cadence-player/cadence/backend"
	"github.com/cadence-player/cadence/icon"
	"github.com/cadence-player/cadence/style"
	"github.com/cadence-player/cadence/util"
)

// maxProgress keeps the bar from claiming completion while the player still
// runs. Parsers round to whole seconds, so the last second would otherwise
// show 100% early.
const maxProgress = 0.99

// State is the transport state shown in the status line.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

func (s State) icon() string {
	switch s {
	case Playing:
		return icon.Get(icon.Play)
	case Paused:
		return icon.Get(icon.Pause)
	default:
		return icon.Get(icon.Stop)
	}
}

// View builds the terminal lines. It holds only presentation state; the
// event loop owns everything else.
type View struct {
	out           io.Writer
	showRemaining bool
}

func New(out io.Writer) *View {
	return &View{out: out}
}

// ToggleCounter switches the position counter between elapsed and remaining
// time and reports whether it now shows remaining.
func (v *View) ToggleCounter() bool {
	v.showRemaining = !v.showRemaining
	return v.showRemaining
}

// Progress is the playback fraction for a position, capped below completion.
func Progress(pos backend.Position) float64 {
	if pos.Total <= 0 {
		return 0
	}
	return util.Min(pos.Elapsed/pos.Total, maxProgress)
}

// StatusLine renders "Playing: <name>" with the transport icon, truncated
// to the terminal width.
func (v *View) StatusLine(state State, name string) string {
	line := fmt.Sprintf("%s %s: %s", state.icon(), state, name)
	return v.fit(line)
}

// TransientLine renders a short-lived message in place of the status line.
func (v *View) TransientLine(message string) string {
	return v.fit(style.Italic(message))
}

// PositionLine renders the counter and a progress bar sized to the
// remaining terminal width.
func (v *View) PositionLine(pos backend.Position) string {
	counter := v.Counter(pos)

	barWidth := termWidth() - len(counter) - 4
	if barWidth < 4 {
		return counter
	}

	filled := int(Progress(pos) * float64(barWidth))
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)
	return fmt.Sprintf("%s [%s]", counter, style.Faint(bar))
}

// Counter formats the position as elapsed or remaining time over the total.
func (v *View) Counter(pos backend.Position) string {
	shown := pos.Elapsed
	sign := ""
	if v.showRemaining {
		shown = pos.Total - pos.Elapsed
		sign = "-"
	}
	return fmt.Sprintf("%s%s / %s", sign, util.Clock(int(shown)), util.Clock(int(pos.Total)))
}

// Draw repaints one line in place. Raw mode means no trailing newline and
// an explicit carriage return.
func (v *View) Draw(line string) {
	fmt.Fprintf(v.out, "\r\x1b[K%s", line)
}

// Println writes a full line, stepping past anything drawn in place.
func (v *View) Println(line string) {
	fmt.Fprintf(v.out, "\r\x1b[K%s\r\n", line)
}

func (v *View) fit(line string) string {
	return truncate.StringWithTail(line, uint(termWidth()), "…")
}

// termWidth falls back to the classic 80 columns when stdout is not a tty.
func termWidth() int {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
