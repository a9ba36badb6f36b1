// pkg/config/config_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: temp dirs, environment variables
// PURPOSE: Verify layered configuration loading and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ShellNative, cfg.Execution.Shell)
	assert.Equal(t, time.Duration(0), cfg.Execution.CommandTimeout)
	assert.Equal(t, time.Duration(0), cfg.Execution.DownloadTimeout)
	assert.Equal(t, "enzyme-installer", cfg.Execution.UserAgent)
	assert.Equal(t, BackendJSON, cfg.History.Backend)
	assert.True(t, cfg.History.Lock)
	assert.Equal(t, 10*time.Second, cfg.History.LockTimeout)
	assert.Equal(t, 10*time.Minute, cfg.History.StaleLockAge)
	assert.Equal(t, 0, cfg.Logging.Verbosity)
}

func TestLoad(t *testing.T) {
	t.Run("defaults_when_no_user_file", func(t *testing.T) {
		p := paths.NewWithBase(t.TempDir())

		cfg, err := Load(LoadOptions{Paths: p})
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("user_file_overrides_defaults", func(t *testing.T) {
		p := paths.NewWithBase(t.TempDir())
		require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
		require.NoError(t, os.WriteFile(p.ConfigFilePath(), []byte(`
[execution]
shell = "virtual"
command_timeout = "5m"

[history]
backend = "sqlite"
lock = false
`), 0644))

		cfg, err := Load(LoadOptions{Paths: p})
		require.NoError(t, err)
		assert.Equal(t, ShellVirtual, cfg.Execution.Shell)
		assert.Equal(t, 5*time.Minute, cfg.Execution.CommandTimeout)
		assert.Equal(t, BackendSQLite, cfg.History.Backend)
		assert.False(t, cfg.History.Lock)
		// Untouched keys keep their defaults
		assert.Equal(t, "enzyme-installer", cfg.Execution.UserAgent)
		assert.Equal(t, 10*time.Second, cfg.History.LockTimeout)
	})

	t.Run("explicit_file_must_exist", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.toml")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("invalid_toml_is_parse_error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[execution\nshell = "), 0644))

		_, err := Load(LoadOptions{ConfigFile: path})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("environment_overrides_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[execution]
command_timeout = "1m"
`), 0644))
		t.Setenv("ENZYME_EXECUTION_COMMAND_TIMEOUT", "30s")
		t.Setenv("ENZYME_EXECUTION_USER_AGENT", "custom-agent/1.0")
		t.Setenv("ENZYME_HISTORY_LOCK", "false")

		cfg, err := Load(LoadOptions{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Execution.CommandTimeout)
		assert.Equal(t, "custom-agent/1.0", cfg.Execution.UserAgent)
		assert.False(t, cfg.History.Lock)
	})

	t.Run("overrides_apply_last", func(t *testing.T) {
		t.Setenv("ENZYME_EXECUTION_SHELL", "native")

		cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
			"execution.shell": "virtual",
		}})
		require.NoError(t, err)
		assert.Equal(t, ShellVirtual, cfg.Execution.Shell)
	})

	t.Run("invalid_enum_rejected", func(t *testing.T) {
		t.Setenv("ENZYME_HISTORY_BACKEND", "postgres")

		_, err := Load(LoadOptions{})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		assert.Contains(t, err.Error(), "history.backend")
	})
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ENZYME_EXECUTION_COMMAND_TIMEOUT", "execution.command_timeout"},
		{"ENZYME_HISTORY_STALE_LOCK_AGE", "history.stale_lock_age"},
		{"ENZYME_LOGGING_VERBOSITY", "logging.verbosity"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"bad shell", func(c *Config) { c.Execution.Shell = "bash" }, "execution.shell"},
		{"bad backend", func(c *Config) { c.History.Backend = "" }, "history.backend"},
		{"negative timeout", func(c *Config) { c.Execution.CommandTimeout = -time.Second }, "execution.command_timeout"},
		{"negative stale age", func(c *Config) { c.History.StaleLockAge = -time.Minute }, "history.stale_lock_age"},
		{"negative verbosity", func(c *Config) { c.Logging.Verbosity = -1 }, "logging.verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
			assert.Equal(t, tt.wantKey, errors.GetErrorDetails(err)["key"])
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestHistoryPath(t *testing.T) {
	p := paths.NewWithBase("/base")

	cfg := Default()
	assert.Equal(t, p.HistoryPath(), cfg.HistoryPath(p))

	cfg.History.Backend = BackendSQLite
	assert.Equal(t, p.HistoryDBPath(), cfg.HistoryPath(p))

	cfg.History.Path = "/custom/history.json"
	assert.Equal(t, "/custom/history.json", cfg.HistoryPath(p))
}

func TestGenerateDefault(t *testing.T) {
	content := GenerateDefault()

	assert.Contains(t, content, "[execution]")
	assert.Contains(t, content, `# shell = "native"`)
	assert.Contains(t, content, `# backend = "json"`)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented assignment left in generated config: %q", line)
	}
}
