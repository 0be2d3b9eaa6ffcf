// Package playlist implements the ordered track sequence and its navigation modes.
//
// Insertion order is the canonical order. On top of it the playlist keeps a
// reversible random-walk: three pools over track identity (visited history,
// redo stack, not-yet-drawn) that always partition the remaining tracks.
package playlist

import (
	"math/rand"
	"sort"
	"time"

	"github.com/cadence-player/cadence/track"
	"github.com/cadence-player/cadence/util"
	"github.com/samber/lo"
)

// Playlist holds an ordered collection of tracks plus the navigation state.
type Playlist struct {
	tracks []*track.Track

	repeat    bool
	random    bool
	stopAfter bool

	// Random-walk pools. prev is oldest-first visited history, next is the
	// redo stack populated by backward steps, left holds tracks not yet
	// drawn in the current cycle.
	prev []*track.Track
	next util.Stack[*track.Track]
	left []*track.Track

	rng *rand.Rand
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed re-seeds the random source. Deterministic runs only; tests use it.
func (p *Playlist) Seed(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

// Add appends a track for the given path and returns it.
// In random mode the new track joins the not-yet-drawn pool.
func (p *Playlist) Add(path string) *track.Track {
	t := track.New(path)
	p.tracks = append(p.tracks, t)
	if p.random {
		p.left = append(p.left, t)
	}
	return t
}

// Tracks returns the backing slice in canonical order.
func (p *Playlist) Tracks() []*track.Track {
	return p.tracks
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Active returns the currently active track, or nil if none is.
func (p *Playlist) Active() *track.Track {
	for _, t := range p.tracks {
		if t.Active() {
			return t
		}
	}
	return nil
}

// ActiveIndex returns the canonical index of the active track, or -1.
func (p *Playlist) ActiveIndex() int {
	for i, t := range p.tracks {
		if t.Active() {
			return i
		}
	}
	return -1
}

// Activate makes t the single active track, clearing any previous one.
// In random mode the jump is recorded in the visited history so a
// subsequent backward step returns to the prior track.
func (p *Playlist) Activate(t *track.Track) {
	if old := p.Active(); old != nil {
		old.SetActive(false)
	}
	if p.random {
		p.visit(t)
		p.left = lo.Without(p.left, t)
	}
	t.SetActive(true)
}

// Flag accessors and toggles.

func (p *Playlist) Repeat() bool    { return p.repeat }
func (p *Playlist) Random() bool    { return p.random }
func (p *Playlist) StopAfter() bool { return p.stopAfter }

func (p *Playlist) ToggleRepeat() bool {
	p.repeat = !p.repeat
	return p.repeat
}

// ToggleRandom flips random mode. Entering (or leaving and re-entering)
// random mode resets the walk: empty history, empty redo stack, every
// track back in the undrawn pool.
func (p *Playlist) ToggleRandom() bool {
	p.random = !p.random
	p.prev = nil
	p.next.Clear()
	p.left = append([]*track.Track(nil), p.tracks...)
	return p.random
}

func (p *Playlist) ToggleStopAfter() bool {
	p.stopAfter = !p.stopAfter
	return p.stopAfter
}

// Advance moves the active mark one step in the given direction (+1 forward,
// -1 backward) and returns the newly active track, or nil when there is no
// further track to move to. A nil return leaves the previous active mark
// untouched so the caller can keep or stop the current playback.
func (p *Playlist) Advance(direction int) *track.Track {
	if len(p.tracks) == 0 {
		return nil
	}

	old := p.Active()

	var chosen *track.Track
	switch {
	case p.random:
		chosen = p.advanceRandom(direction)
		if chosen == nil {
			return nil
		}
		if old != nil {
			old.SetActive(false)
		}
	case old != nil:
		index := lo.IndexOf(p.tracks, old) + direction
		if (index < 0 || index >= len(p.tracks)) && !p.repeat {
			return nil
		}
		old.SetActive(false)
		chosen = p.tracks[((index%len(p.tracks))+len(p.tracks))%len(p.tracks)]
	default:
		chosen = p.tracks[0]
	}

	chosen.SetActive(true)
	return chosen
}

// advanceRandom performs one step of the random walk without touching
// active marks.
func (p *Playlist) advanceRandom(direction int) *track.Track {
	if direction > 0 {
		// Prefer redoing a track previously stepped back from.
		if p.next.Len() > 0 {
			chosen := p.next.Pop()
			p.visit(chosen)
			return chosen
		}

		if len(p.left) == 0 {
			if !p.repeat {
				return nil
			}
			p.left = append([]*track.Track(nil), p.tracks...)
		}

		i := p.rng.Intn(len(p.left))
		chosen := p.left[i]
		p.left = append(p.left[:i], p.left[i+1:]...)
		p.visit(chosen)
		return chosen
	}

	// Backward needs somewhere to return to: the current history tail is
	// the active track, the one before it is the destination.
	if len(p.prev) < 2 {
		return nil
	}
	tail := p.prev[len(p.prev)-1]
	p.prev = p.prev[:len(p.prev)-1]
	p.next.Push(tail)
	return p.prev[len(p.prev)-1]
}

// visit appends t to the history tail, dropping any earlier occurrence so
// the history never holds duplicates.
func (p *Playlist) visit(t *track.Track) {
	p.prev = lo.Without(p.prev, t)
	p.prev = append(p.prev, t)
}

// Tagged returns all tracks carrying the tag mark.
func (p *Playlist) Tagged() []*track.Track {
	return lo.Filter(p.tracks, func(t *track.Track, _ int) bool {
		return t.Tagged()
	})
}

// Delete removes the given tracks from the playlist and from every
// random-walk pool, preserving the pool partition invariant.
func (p *Playlist) Delete(victims ...*track.Track) {
	if len(victims) == 0 {
		return
	}
	p.tracks = lo.Without(p.tracks, victims...)
	p.removeFromPools(victims...)
}

// DeleteTagged removes every tagged track; when none is tagged it removes
// current instead. Returns the number of removed tracks.
func (p *Playlist) DeleteTagged(current *track.Track) int {
	victims := p.Tagged()
	if len(victims) == 0 && current != nil {
		victims = []*track.Track{current}
	}
	p.Delete(victims...)
	return len(victims)
}

// Clear removes every track and resets all pools.
func (p *Playlist) Clear() {
	p.tracks = nil
	p.prev = nil
	p.next.Clear()
	p.left = nil
}

// Untag clears the tag mark of a track. No pool bookkeeping is needed since
// the track remains part of the playlist.
func (p *Playlist) Untag(t *track.Track) {
	t.SetTagged(false)
}

// removeFromPools drops the given tracks from prev, next and left.
func (p *Playlist) removeFromPools(victims ...*track.Track) {
	p.prev = lo.Without(p.prev, victims...)
	p.left = lo.Without(p.left, victims...)
	p.next.Filter(func(t *track.Track) bool {
		return !lo.Contains(victims, t)
	})
}

// MoveTagged relocates the tagged tracks right after (or before) the given
// anchor track, keeping their relative order. A tagged anchor is a no-op.
func (p *Playlist) MoveTagged(anchor *track.Track, after bool) {
	moved := p.Tagged()
	if len(moved) == 0 || anchor == nil || anchor.Tagged() {
		return
	}

	rest := lo.Without(p.tracks, moved...)
	at := lo.IndexOf(rest, anchor)
	if after {
		at++
	}

	p.tracks = make([]*track.Track, 0, len(rest)+len(moved))
	p.tracks = append(p.tracks, rest[:at]...)
	p.tracks = append(p.tracks, moved...)
	p.tracks = append(p.tracks, rest[at:]...)
}

// Shuffle randomizes the canonical order. The random-walk pools are
// unaffected: they track identity, not position.
func (p *Playlist) Shuffle() {
	p.rng.Shuffle(len(p.tracks), func(i, j int) {
		p.tracks[i], p.tracks[j] = p.tracks[j], p.tracks[i]
	})
}

// Sort orders tracks by display name.
func (p *Playlist) Sort() {
	sort.SliceStable(p.tracks, func(i, j int) bool {
		return p.tracks[i].Name() < p.tracks[j].Name()
	})
}

// pools exposes the partition for invariant checks in tests.
func (p *Playlist) pools() (prev, next, left []*track.Track) {
	return p.prev, p.next.Items(), p.left
}
