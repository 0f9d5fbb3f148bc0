// Package filesystem routes every file operation through a swappable afero backend.
//
// Production code uses the OS filesystem; tests switch to an in-memory one.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active backend.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetOsFs restores the operating system backend.
func SetOsFs() {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs installs a fresh in-memory backend.
func SetMemMapFs() {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// IsOs reports whether files land on the real disk, which external tools need.
func IsOs() bool {
	_, ok := API().Fs.(*afero.OsFs)
	return ok
}
