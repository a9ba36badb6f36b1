package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/enzyme/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for enzyme
	EnvDataDir = "ENZYME_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for enzyme
	EnvConfigDir = "ENZYME_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for enzyme
	EnvStateDir = "ENZYME_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files. These names are part of the on-disk layout
// and are not user-configurable.
const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "enzyme"

	// HistoryFileName is the JSON history file
	HistoryFileName = "state.json"

	// HistoryDBName is the SQLite history database
	HistoryDBName = "state.db"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "enzyme.log"
)

// Paths supplies the base locations enzyme reads and writes outside the
// directories named by a manifest.
type Paths interface {
	DataDir() string
	ConfigDir() string
	StateDir() string
	HistoryPath() string
	HistoryDBPath() string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New creates a Paths instance from the XDG environment, honouring the
// ENZYME_* overrides.
func New() (Paths, error) {
	// Pick up XDG_* changes made after process start (tests rely on this).
	xdg.Reload()

	p := &paths{
		xdgData:   dirFromEnv(EnvDataDir, filepath.Join(xdg.DataHome, AppDirName)),
		xdgConfig: dirFromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName)),
		xdgState:  dirFromEnv(EnvStateDir, filepath.Join(xdg.StateHome, AppDirName)),
	}

	for _, dir := range []*string{&p.xdgData, &p.xdgConfig, &p.xdgState} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

// NewWithBase roots every directory under base. It never consults the
// environment.
func NewWithBase(base string) Paths {
	return &paths{
		xdgData:   filepath.Join(base, "data", AppDirName),
		xdgConfig: filepath.Join(base, "config", AppDirName),
		xdgState:  filepath.Join(base, "state", AppDirName),
	}
}

func dirFromEnv(name, fallback string) string {
	if dir := os.Getenv(name); dir != "" {
		return ExpandHome(dir)
	}
	return fallback
}

// DataDir returns the XDG data directory for enzyme
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for enzyme
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for enzyme
func (p *paths) StateDir() string {
	return p.xdgState
}

// HistoryPath returns the JSON history file location
func (p *paths) HistoryPath() string {
	return filepath.Join(p.xdgData, HistoryFileName)
}

// HistoryDBPath returns the SQLite history database location
func (p *paths) HistoryDBPath() string {
	return filepath.Join(p.xdgData, HistoryDBName)
}

// ConfigFilePath returns the user configuration file location
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the log file location
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}
