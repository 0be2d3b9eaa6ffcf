// Package history persists which tracks were played, how often and how far.
package history

import (
	"time"

	"github.com/metafates/gache"

	"github.com/cadence-player/cadence/filesystem"
	"github.com/cadence-player/cadence/where"
)

// cacher provides an abstracted, disk-backed registry of playback records.
// Built lazily so swapping the filesystem backend swaps the store with it.
var cacher *gache.Cache[map[string]*Record]

func registry() *gache.Cache[map[string]*Record] {
	if cacher == nil {
		cacher = gache.New[map[string]*Record](
			&gache.Options{
				Path:       where.History(),
				FileSystem: &filesystem.GacheFs{},
			},
		)
	}
	return cacher
}

// Get returns the complete collection of playback records, keyed by track
// path.
func Get() (map[string]*Record, error) {
	cached, expired, err := registry().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Save records one finished or stopped playback of a track. The play count
// accumulates across saves of the same path.
func Save(name, path string, offset, length float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record, exists := saved[path]
	if !exists {
		record = &Record{Name: name, Path: path}
		saved[path] = record
	}
	record.Name = name
	record.PlayCount++
	record.LastOffset = offset
	record.Length = length
	record.LastPlayed = time.Now()

	return registry().Set(saved)
}

// Remove deletes the record of a track from the registry.
func Remove(path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, path)
	return registry().Set(saved)
}
