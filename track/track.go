// Package track defines the playable item model shared by the playlist and playback layers.
package track

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cadence-player/cadence/filesystem"
	"github.com/dhowden/tag"
)

// Track identifies a single playable item, either a local file path or a stream URL.
// Tracks are owned by the playlist: created on add, discarded on delete.
type Track struct {
	Path string

	tagged bool
	active bool

	// display caches the lazily-resolved metadata string.
	display string
}

// New creates a track for the given path or URL.
func New(path string) *Track {
	return &Track{Path: path}
}

// IsURL reports whether the track points at a remote stream rather than a local file.
func (t *Track) IsURL() bool {
	return strings.HasPrefix(t.Path, "http://") || strings.HasPrefix(t.Path, "https://")
}

// Tagged reports whether the track carries the user tag mark.
func (t *Track) Tagged() bool {
	return t.tagged
}

// SetTagged sets or clears the user tag mark.
func (t *Track) SetTagged(value bool) {
	t.tagged = value
}

// Active reports whether this is the track playback is positioned on.
// At most one track across the whole playlist is active at any time;
// the playlist enforces that invariant.
func (t *Track) Active() bool {
	return t.active
}

// SetActive sets or clears the active mark.
func (t *Track) SetActive(value bool) {
	t.active = value
}

// Name returns the short display name of the track: the base filename
// for local files, the full URL for streams.
func (t *Track) Name() string {
	if t.IsURL() {
		return t.Path
	}
	return filepath.Base(t.Path)
}

// Display returns the human-readable label for the track, resolving
// "Artist - Title" metadata from the file on first use. Resolution
// failures fall back to the plain filename and are not retried.
func (t *Track) Display() string {
	if t.display != "" {
		return t.display
	}
	t.display = t.readMetadata()
	return t.display
}

// readMetadata probes the local file for embedded tags.
func (t *Track) readMetadata() string {
	if t.IsURL() {
		return t.Path
	}

	fallback := fmt.Sprintf("N/A - %s", filepath.Base(t.Path))

	f, err := filesystem.API().Open(t.Path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return fallback
	}

	artist, title := meta.Artist(), meta.Title()
	switch {
	case artist != "" && title != "":
		return fmt.Sprintf("%s - %s", artist, title)
	case artist != "":
		return artist
	case title != "":
		return title
	default:
		return fallback
	}
}

// String renders the track as a playlist line with its tag marker.
func (t *Track) String() string {
	mark := " "
	if t.tagged {
		mark = "*"
	}
	return fmt.Sprintf("%s %s", mark, t.Name())
}
