// Package history remembers which lectures have been downloaded and where.
package history

import (
	"sort"
	"sync"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu serializes read-modify-write of the file. Lectures finish concurrently.
var mu sync.Mutex

// Get returns every record keyed by lecture URL.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the records, most recent first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Completed.After(records[j].Completed)
	})
	return records, nil
}

// Save adds record, replacing an older one for the same lecture.
func Save(record *Record) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[record.key()] = record
	return cacher.Set(saved)
}

func Remove(record *Record) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.key())
	return cacher.Set(saved)
}

// Clear forgets every record.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher.Set(make(map[string]*Record))
}
