package history

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Defaults used when no option overrides them
const (
	DefaultLockTimeout  = 10 * time.Second
	DefaultStaleLockAge = 10 * time.Minute
)

// JSONStore keeps the history in a JSON file
type JSONStore struct {
	fs           afero.Fs
	path         string
	lock         bool
	lockTimeout  time.Duration
	staleLockAge time.Duration
	logger       zerolog.Logger

	// beforeWrite runs between load and write during Append
	beforeWrite func()
}

// Option configures a JSONStore
type Option func(*JSONStore)

// WithLock enables or disables the lock file
func WithLock(enabled bool) Option {
	return func(s *JSONStore) { s.lock = enabled }
}

// WithLockTimeout bounds how long Append waits for the lock
func WithLockTimeout(d time.Duration) Option {
	return func(s *JSONStore) { s.lockTimeout = d }
}

// WithStaleLockAge sets the age after which a lock is considered abandoned
func WithStaleLockAge(d time.Duration) Option {
	return func(s *JSONStore) { s.staleLockAge = d }
}

// NewJSONStore creates a store for path. Locking is on by default.
func NewJSONStore(fs afero.Fs, path string, opts ...Option) *JSONStore {
	s := &JSONStore{
		fs:           fs,
		path:         path,
		lock:         true,
		lockTimeout:  DefaultLockTimeout,
		staleLockAge: DefaultStaleLockAge,
		logger:       logging.GetLogger("history"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the history file location
func (s *JSONStore) Path() string {
	return s.path
}

// LockPath returns the lock file location
func (s *JSONStore) LockPath() string {
	return s.path + ".lock"
}

// Load reads the history file. A missing file is an empty history.
func (s *JSONStore) Load() (types.State, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.State{Installs: []types.InstallRecord{}}, nil
		}
		return types.State{}, errors.Wrapf(err, errors.ErrHistoryRead, "reading history %s", s.path).
			WithDetail("path", s.path)
	}

	var state types.State
	if err := json.Unmarshal(data, &state); err != nil {
		return types.State{}, errors.Wrapf(err, errors.ErrHistoryParse, "parsing history %s", s.path).
			WithDetail("path", s.path)
	}
	if state.Installs == nil {
		state.Installs = []types.InstallRecord{}
	}
	return state, nil
}

// Append loads the history, adds rec at the end and replaces the file
func (s *JSONStore) Append(rec types.InstallRecord) error {
	if s.lock {
		lock, err := filesystem.AcquireLock(context.Background(), s.fs, s.LockPath(), s.lockTimeout, s.staleLockAge)
		if err != nil {
			return errors.Wrapf(err, errors.ErrHistoryLock, "locking history %s", s.path).
				WithDetail("path", s.path)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				s.logger.Warn().Err(err).Str("lock", lock.Path()).Msg("Failed to release history lock")
			}
		}()
	}

	state, err := s.Load()
	if err != nil {
		return err
	}
	state.Installs = append(state.Installs, rec)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrHistoryWrite, "encoding history")
	}

	if s.beforeWrite != nil {
		s.beforeWrite()
	}

	if err := filesystem.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrHistoryWrite, "writing history %s", s.path).
			WithDetail("path", s.path)
	}

	s.logger.Debug().
		Str("path", s.path).
		Str("app", rec.AppName).
		Str("status", string(rec.Status)).
		Int("records", len(state.Installs)).
		Msg("History appended")
	return nil
}

// Close is a no-op; the file is not held open
func (s *JSONStore) Close() error {
	return nil
}
