// Package history records the pitches the user watched and how far they got.
package history

import (
	"slices"

	"github.com/metafates/gache"
	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.CacheFs{},
	},
)

// Get returns every entry keyed by id and endpoint.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the entries, most recently played first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	slices.SortFunc(entries, func(a, b *Entry) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	return entries, nil
}

// Save stores entry. The watched percentage never decreases for the same pitch.
// Nothing is written when history.save is disabled.
func Save(entry *Entry) error {
	if !viper.GetBool(key.HistorySave) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	if existing, ok := saved[entry.encode()]; ok && existing.WatchedPercentage > entry.WatchedPercentage {
		entry.WatchedPercentage = existing.WatchedPercentage
	}

	saved[entry.encode()] = entry
	return cacher.Set(saved)
}

// Remove deletes entry.
func Remove(entry *Entry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return cacher.Set(saved)
}

// Clear deletes every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
