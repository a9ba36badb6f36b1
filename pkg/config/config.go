package config

import (
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
)

// Shell names accepted by execution.shell
const (
	ShellNative  = "native"
	ShellVirtual = "virtual"
)

// History backends accepted by history.backend
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure
type Config struct {
	Execution Execution `koanf:"execution"`
	History   History   `koanf:"history"`
	Logging   Logging   `koanf:"logging"`
}

// Execution controls how plan steps are carried out
type Execution struct {
	Shell           string        `koanf:"shell"`
	CommandTimeout  time.Duration `koanf:"command_timeout"`
	DownloadTimeout time.Duration `koanf:"download_timeout"`
	UserAgent       string        `koanf:"user_agent"`
}

// History controls where install records are kept
type History struct {
	Backend      string        `koanf:"backend"`
	Path         string        `koanf:"path"`
	Lock         bool          `koanf:"lock"`
	LockTimeout  time.Duration `koanf:"lock_timeout"`
	StaleLockAge time.Duration `koanf:"stale_lock_age"`
}

// Logging holds the baseline verbosity; -v flags are added on top
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Validate checks enum fields and durations
func (c *Config) Validate() error {
	switch c.Execution.Shell {
	case ShellNative, ShellVirtual:
	default:
		return errors.Newf(errors.ErrConfigParse, "execution.shell must be %q or %q, got %q",
			ShellNative, ShellVirtual, c.Execution.Shell).
			WithDetail("key", "execution.shell")
	}

	switch c.History.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return errors.Newf(errors.ErrConfigParse, "history.backend must be %q or %q, got %q",
			BackendJSON, BackendSQLite, c.History.Backend).
			WithDetail("key", "history.backend")
	}

	durations := map[string]time.Duration{
		"execution.command_timeout":  c.Execution.CommandTimeout,
		"execution.download_timeout": c.Execution.DownloadTimeout,
		"history.lock_timeout":       c.History.LockTimeout,
		"history.stale_lock_age":     c.History.StaleLockAge,
	}
	for key, d := range durations {
		if d < 0 {
			return errors.Newf(errors.ErrConfigParse, "%s must not be negative, got %s", key, d).
				WithDetail("key", key)
		}
	}

	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigParse, "logging.verbosity must not be negative, got %d", c.Logging.Verbosity).
			WithDetail("key", "logging.verbosity")
	}

	return nil
}
