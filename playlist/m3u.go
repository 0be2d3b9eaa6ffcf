package playlist

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cadence-player/cadence/filesystem"
)

// Recognized playlist file extensions.
var reExt = regexp.MustCompile(`(?i)\.(m3u|pls)$`)

// rePlsFile matches the File<N>=<path> entries of the pls format.
var rePlsFile = regexp.MustCompile(`^File(\d+)=(.*)$`)

// IsPlaylistFile reports whether the path names a loadable playlist file.
func IsPlaylistFile(path string) bool {
	return reExt.MatchString(path)
}

// Load reads an m3u or pls file and appends its entries to the playlist.
// Relative entries are resolved against the playlist file's directory.
func (p *Playlist) Load(path string) error {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	pls := strings.EqualFold(filepath.Ext(path), ".pls")
	dir := filepath.Dir(path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if pls {
			p.addPlsLine(line, dir)
		} else {
			p.addM3uLine(line, dir)
		}
	}
	return scanner.Err()
}

// addM3uLine adds one m3u entry: blank lines and comments are skipped,
// absolute paths and URLs are taken verbatim.
func (p *Playlist) addM3uLine(line, dir string) {
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	if strings.HasPrefix(line, "/") || strings.Contains(line, "://") {
		p.Add(line)
		return
	}
	p.Add(filepath.Join(dir, line))
}

// addPlsLine adds one pls entry; only File<N>= lines carry paths.
func (p *Playlist) addPlsLine(line, dir string) {
	m := rePlsFile.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.addM3uLine(m[2], dir)
}

// Save writes the playlist in m3u form, one path per line.
func (p *Playlist) Save(path string) error {
	var b strings.Builder
	for _, t := range p.tracks {
		b.WriteString(t.Path)
		b.WriteByte('\n')
	}
	return filesystem.API().WriteFile(path, []byte(b.String()), 0644)
}
