package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the history in a SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "creating history directory for %s", path).
				WithDetail("path", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrHistoryRead, "opening history database %s", path).
			WithDetail("path", path)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, errors.ErrHistoryRead, "configuring history database %s", path).
				WithDetail("path", path)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrHistoryWrite, "creating history schema in %s", path).
			WithDetail("path", path)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Load returns all records ordered by insertion
func (s *SQLiteStore) Load() (types.State, error) {
	rows, err := s.db.Query(`
		SELECT app_name, app_version, mode, os, cpu_arch, timestamp, status
		FROM installs
		ORDER BY id ASC
	`)
	if err != nil {
		return types.State{}, errors.Wrap(err, errors.ErrHistoryRead, "querying history")
	}
	defer func() { _ = rows.Close() }()

	state := types.State{Installs: []types.InstallRecord{}}
	for rows.Next() {
		var rec types.InstallRecord
		var ts, status string
		if err := rows.Scan(&rec.AppName, &rec.AppVersion, &rec.Mode, &rec.OS, &rec.CPUArch, &ts, &status); err != nil {
			return types.State{}, errors.Wrap(err, errors.ErrHistoryParse, "scanning history row")
		}
		rec.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return types.State{}, errors.Wrapf(err, errors.ErrHistoryParse, "parsing timestamp %q", ts)
		}
		rec.Status = types.InstallStatus(status)
		state.Installs = append(state.Installs, rec)
	}
	if err := rows.Err(); err != nil {
		return types.State{}, errors.Wrap(err, errors.ErrHistoryRead, "iterating history")
	}
	return state, nil
}

// Append inserts rec in its own transaction
func (s *SQLiteStore) Append(rec types.InstallRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.ErrHistoryWrite, "starting history transaction")
	}

	_, err = tx.Exec(`
		INSERT INTO installs (app_name, app_version, mode, os, cpu_arch, timestamp, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.AppName, rec.AppVersion, rec.Mode, rec.OS, rec.CPUArch,
		rec.Timestamp.UTC().Format(time.RFC3339), string(rec.Status))
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, errors.ErrHistoryWrite, "inserting history record")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrHistoryWrite, "committing history record")
	}

	logger := logging.GetLogger("history")
	logger.Debug().
		Str("path", s.path).
		Str("app", rec.AppName).
		Str("status", string(rec.Status)).
		Msg("History appended")
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
