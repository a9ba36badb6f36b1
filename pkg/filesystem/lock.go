package filesystem

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/spf13/afero"
)

// LockRetryInterval is how often AcquireLock retries a held lock.
const LockRetryInterval = 50 * time.Millisecond

// Lock is an exclusive lock file held by this process.
type Lock struct {
	fs   afero.Fs
	path string
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock file. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.fs == nil {
		return nil
	}
	err := l.fs.Remove(l.path)
	l.fs = nil
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove lock %s", l.path).
			WithDetail("path", l.path)
	}
	return nil
}

// AcquireLock creates path with O_CREATE|O_EXCL, retrying until it succeeds,
// timeout elapses or ctx is done. A zero timeout means a single attempt.
// Lock files older than stale are assumed abandoned and removed; zero
// disables stale detection.
func AcquireLock(ctx context.Context, fs afero.Fs, path string, timeout, stale time.Duration) (*Lock, error) {
	if err := EnsureParent(fs, path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create lock directory for %s", path).
			WithDetail("path", path)
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()

	for {
		lock, err := tryLock(fs, path)
		if err == nil {
			return lock, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create lock %s", path).
				WithDetail("path", path)
		}

		if stale > 0 && breakStaleLock(fs, path, stale) {
			continue
		}

		if !time.Now().Before(deadline) {
			return nil, errors.Newf(errors.ErrLockTimeout, "timed out after %s waiting for lock %s", timeout, path).
				WithDetail("path", path)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), errors.ErrLockTimeout, "gave up waiting for lock %s", path).
				WithDetail("path", path)
		case <-ticker.C:
		}
	}
}

func tryLock(fs afero.Fs, path string) (*Lock, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	if err := f.Close(); err != nil {
		_ = fs.Remove(path)
		return nil, err
	}
	return &Lock{fs: fs, path: path}, nil
}

// breakStaleLock removes path when it is older than stale. The age is
// checked while holding the sibling "<path>.break" lock.
func breakStaleLock(fs afero.Fs, path string, stale time.Duration) bool {
	breaker, err := tryLock(fs, path+".break")
	if err != nil {
		// Another waiter is breaking; an abandoned breaker is cleared so
		// the next attempt can proceed.
		if info, statErr := fs.Stat(path + ".break"); statErr == nil && time.Since(info.ModTime()) >= stale {
			_ = fs.Remove(path + ".break")
		}
		return false
	}
	defer func() { _ = breaker.Release() }()

	info, err := fs.Stat(path)
	if err != nil {
		// Vanished between attempts; just retry.
		return os.IsNotExist(err)
	}
	if time.Since(info.ModTime()) < stale {
		return false
	}
	return fs.Remove(path) == nil
}
