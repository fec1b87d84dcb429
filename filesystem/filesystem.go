// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// It utilizes the afero library so configuration, logs and history can run on an in-memory backend in tests.
package filesystem

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes data to a sibling temporary file and renames it over path.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := backend.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return backend.Rename(tmp, path)
}

// CacheFs lets gache caches follow the active backend, so history and suggestions live in memory during tests.
type CacheFs struct{}

func (CacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return backend.OpenFile(name, flag, perm)
}

func (CacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}
