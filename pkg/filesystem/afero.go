package filesystem

import (
	"github.com/spf13/afero"
)

// NewOS returns a filesystem backed by the host OS
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an in-memory filesystem for tests and dry runs
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// EnsureParent creates the parent directory of path if it is missing.
func EnsureParent(fs afero.Fs, path string) error {
	dir := parentDir(path)
	if dir == "" {
		return nil
	}
	return fs.MkdirAll(dir, 0755)
}
