package executor

import (
	"archive/zip"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// creatorUnix is the zip "version made by" host value for Unix
const creatorUnix = 3

func (e *Executor) extract(step types.ExtractStep, platform string) error {
	if err := e.fs.MkdirAll(step.Dest, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", step.Dest, err)
	}

	f, err := e.fs.Open(step.Archive)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", step.Archive, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", step.Archive, err)
	}
	zr, err := zip.NewReader(f, info.Size())
	// Entry names are checked one by one below
	if stderrors.Is(err, zip.ErrInsecurePath) && zr != nil {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("reading zip archive %s: %w", step.Archive, err)
	}

	for _, entry := range zr.File {
		target, err := SanitizeEntryPath(step.Dest, entry.Name, e.canonicalize)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := e.fs.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}

		if err := e.extractFile(entry, target); err != nil {
			return err
		}

		if platform != types.PlatformWindows && entry.CreatorVersion>>8 == creatorUnix {
			if perm := entry.Mode().Perm(); perm != 0 {
				if err := e.fs.Chmod(target, perm); err != nil {
					return fmt.Errorf("setting permissions on %s: %w", target, err)
				}
			}
		}
	}

	e.logger.Debug().Str("archive", step.Archive).Str("dest", step.Dest).Int("entries", len(zr.File)).Msg("Extracted")
	return nil
}

func (e *Executor) extractFile(entry *zip.File, target string) error {
	if err := filesystem.EnsureParent(e.fs, target); err != nil {
		return fmt.Errorf("creating parent of %s: %w", target, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("reading %s from archive: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := e.fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// SanitizeEntryPath maps an archive entry name to a path under destRoot.
// Names with ".." components, absolute names and names that resolve
// outside destRoot after canonicalization are rejected with an
// UnsafeEntryError, as are names canonicalize cannot resolve. Without a
// canonicalize func the plain paths are compared.
func SanitizeEntryPath(destRoot, name string, canonicalize func(string) (string, error)) (string, error) {
	for _, part := range strings.FieldsFunc(name, isSeparator) {
		if part == ".." {
			return "", &UnsafeEntryError{Entry: name, Reason: "escapes destination"}
		}
	}

	if isAbsoluteName(name) {
		return "", &UnsafeEntryError{Entry: name, Reason: "has absolute path"}
	}

	full := filepath.Join(destRoot, filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))

	root, target := filepath.Clean(destRoot), filepath.Clean(full)
	if canonicalize != nil {
		var err error
		if root, err = canonicalize(destRoot); err != nil {
			return "", &UnsafeEntryError{Entry: name, Reason: "cannot resolve destination"}
		}
		if target, err = canonicalize(full); err != nil {
			return "", &UnsafeEntryError{Entry: name, Reason: "cannot be resolved"}
		}
	}

	if !isWithin(root, target) {
		return "", &UnsafeEntryError{Entry: name, Reason: "outside destination"}
	}
	return full, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// isAbsoluteName recognises POSIX roots, Windows drive letters and UNC
// names regardless of the host OS.
func isAbsoluteName(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '/' || name[0] == '\\' {
		return true
	}
	if len(name) >= 2 && name[1] == ':' {
		c := name[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return filepath.IsAbs(name)
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// maxLinkHops bounds dangling symlink chains followed by CanonicalPath
const maxLinkHops = 40

// CanonicalPath returns the absolute form of path with symlinks resolved.
// Trailing components that do not exist yet are appended unresolved to the
// deepest existing ancestor. Dangling symlinks are followed to their
// targets.
func CanonicalPath(path string) (string, error) {
	return canonicalPath(path, 0)
}

func canonicalPath(path string, hops int) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return joinMissing(resolved, missing), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		if info, lerr := os.Lstat(existing); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			if hops >= maxLinkHops {
				return "", fmt.Errorf("too many levels of symbolic links resolving %s", path)
			}
			link, err := os.Readlink(existing)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(existing), link)
			}
			return canonicalPath(joinMissing(link, missing), hops+1)
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		missing = append(missing, filepath.Base(existing))
		existing = parent
	}
}

// joinMissing appends components collected deepest-first
func joinMissing(base string, missing []string) string {
	for i := len(missing) - 1; i >= 0; i-- {
		base = filepath.Join(base, missing[i])
	}
	return base
}
