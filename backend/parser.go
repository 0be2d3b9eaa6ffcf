// Package backend defines the external player profiles and the per-profile
// strategies that turn raw player output into playback positions.
package backend

import (
	"regexp"
	"strconv"

	"github.com/samber/mo"
)

// Position is a parsed playback position in whole seconds.
type Position struct {
	Elapsed float64
	Total   float64
}

// Parser extracts a playback position from the most recent chunk of player
// output. Chunks that match nothing yield None and the caller keeps the
// previously displayed position.
//
// Parsers are per-session instances: some strategies are stateful.
type Parser interface {
	Extract(buf []byte) mo.Option[Position]
}

// Parser strategy identifiers accepted in backend registry entries.
const (
	ParserFrame       = "frame"
	ParserFrameMpp    = "frame-mpp"
	ParserTime        = "time"
	ParserTimeMplayer = "time-mplayer"
	ParserNone        = "none"
)

// newParser builds a fresh strategy instance for one playback session.
func newParser(kind string) Parser {
	switch kind {
	case ParserFrameMpp:
		return &frameOffsetMppParser{}
	case ParserTime:
		return &timeOffsetParser{}
	case ParserTimeMplayer:
		return &timeMplayerParser{}
	case ParserNone:
		return &noOffsetParser{}
	default:
		return &frameOffsetParser{}
	}
}

// frameOffsetParser handles players reporting elapsed and remaining time as
// two mm:ss pairs (mpg123 -v style "Time: 01:23 ... [02:34]"): the pair sums
// to the track total.
type frameOffsetParser struct{}

var reFrameOffset = regexp.MustCompile(`Time.*\s(\d+):(\d+).*\[(\d+):(\d+)`)

func (frameOffsetParser) Extract(buf []byte) mo.Option[Position] {
	m := reFrameOffset.FindSubmatch(buf)
	if m == nil {
		return mo.None[Position]()
	}
	elapsed := minSec(m[1], m[2])
	remaining := minSec(m[3], m[4])
	return mo.Some(Position{Elapsed: elapsed, Total: elapsed + remaining})
}

// frameOffsetMppParser handles players printing elapsed and total as two
// loose mm:ss pairs on one line (mppdec style).
type frameOffsetMppParser struct{}

var reFrameOffsetMpp = regexp.MustCompile(`\s(\d+):(\d+).*\s(\d+):(\d+)`)

func (frameOffsetMppParser) Extract(buf []byte) mo.Option[Position] {
	m := reFrameOffsetMpp.FindSubmatch(buf)
	if m == nil {
		return mo.None[Position]()
	}
	elapsed := minSec(m[1], m[2])
	total := minSec(m[3], m[4])
	return mo.Some(Position{Elapsed: elapsed, Total: total})
}

// timeOffsetParser handles players reporting only the remaining time as
// h:mm:ss (madplay --display-time=remaining). The total is the largest
// remaining value seen, so the first line fixes the track length.
type timeOffsetParser struct {
	total float64
}

var reTimeOffset = regexp.MustCompile(`(\d+):(\d+):(\d+)`)

func (p *timeOffsetParser) Extract(buf []byte) mo.Option[Position] {
	m := reTimeOffset.FindSubmatch(buf)
	if m == nil {
		return mo.None[Position]()
	}
	remaining := float64(atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3]))
	if remaining > p.total {
		p.total = remaining
	}
	return mo.Some(Position{Elapsed: p.total - remaining, Total: p.total})
}

// timeMplayerParser handles mplayer's status line
// "A:  12.3 (12.2) of 345.0 ...".
type timeMplayerParser struct{}

var reTimeMplayer = regexp.MustCompile(`(?m)^A:.*?(\d+)\.\d \([^)]+\) of (\d+)\.\d`)

func (timeMplayerParser) Extract(buf []byte) mo.Option[Position] {
	m := reTimeMplayer.FindSubmatch(buf)
	if m == nil {
		return mo.None[Position]()
	}
	return mo.Some(Position{
		Elapsed: float64(atoi(m[1])),
		Total:   float64(atoi(m[2])),
	})
}

// noOffsetParser fabricates a monotonically increasing position for backends
// that report nothing, purely so the progress indicator animates.
type noOffsetParser struct {
	ticks float64
}

func (p *noOffsetParser) Extract([]byte) mo.Option[Position] {
	p.ticks++
	return mo.Some(Position{Elapsed: p.ticks, Total: p.ticks * 2})
}

func atoi(b []byte) int {
	n, _ := strconv.Atoi(string(b))
	return n
}

func minSec(m, s []byte) float64 {
	return float64(atoi(m)*60 + atoi(s))
}
