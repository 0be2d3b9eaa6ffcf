package app

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"github.com/cadence-player/cadence/filesystem"
	"github.com/cadence-player/cadence/playlist"
)

// AddPath appends whatever the path names to the playlist: a URL verbatim,
// a playlist file entry by entry, a directory recursively, a plain file as
// one track. It returns how many tracks were added.
func (p *Player) AddPath(path string) (int, error) {
	if strings.Contains(path, "://") {
		p.Playlist.Add(path)
		return 1, nil
	}

	if playlist.IsPlaylistFile(path) {
		before := p.Playlist.Len()
		if err := p.Playlist.Load(path); err != nil {
			return 0, err
		}
		// Saving goes back to the playlist most recently loaded.
		p.savePath = path
		return p.Playlist.Len() - before, nil
	}

	info, err := filesystem.API().Stat(path)
	if err != nil {
		return 0, fmt.Errorf("add %s: %w", path, err)
	}
	if !info.IsDir() {
		if p.Registry.Match(path) == nil {
			return 0, fmt.Errorf("no player for %s", path)
		}
		p.Playlist.Add(path)
		return 1, nil
	}

	// Directories are walked in lexical order, so albums come out sorted.
	added := 0
	err = afero.Walk(filesystem.API(), path, func(sub string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if p.Registry.Match(sub) != nil {
			p.Playlist.Add(sub)
			added++
		}
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("add %s: %w", path, err)
	}
	return added, nil
}
