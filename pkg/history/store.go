package history

import (
	"github.com/arthur-debert/enzyme/pkg/config"
	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// Store persists install records in insertion order
type Store interface {
	// Load returns every record; a store that does not exist yet is empty
	Load() (types.State, error)
	// Append adds rec after all existing records
	Append(rec types.InstallRecord) error
	Close() error
}

// Open returns the store selected by cfg
func Open(cfg *config.Config, p paths.Paths) (Store, error) {
	path := cfg.HistoryPath(p)
	if cfg.History.Backend == config.BackendSQLite {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(filesystem.NewOS(), path,
		WithLock(cfg.History.Lock),
		WithLockTimeout(cfg.History.LockTimeout),
		WithStaleLockAge(cfg.History.StaleLockAge),
	), nil
}
