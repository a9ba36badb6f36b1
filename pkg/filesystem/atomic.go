package filesystem

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/spf13/afero"
)

// WriteFileAtomic writes data to a temporary sibling of path and renames it
// into place. Readers observe either the old content or the new content.
// If the process dies before the rename, the previous file is untouched.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := parentDir(path)
	if dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir).
				WithDetail("path", dir)
		}
	} else {
		dir = "."
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create temp file for %s", path).
			WithDetail("path", path)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write temp file for %s", path).
			WithDetail("path", path)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to sync temp file for %s", path).
			WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close temp file for %s", path).
			WithDetail("path", path)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		_ = fs.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to set permissions on %s", path).
			WithDetail("path", path)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move temp file into %s", path).
			WithDetail("path", path)
	}
	return nil
}

func parentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
