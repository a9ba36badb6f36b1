package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/stretchr/testify/require"
)

// IsolatePaths sets the ENZYME_*_DIR variables to directories under a fresh
// temp dir and returns the resolved Paths. NO_COLOR is set so renderers stay
// plain.
func IsolatePaths(t *testing.T) paths.Paths {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	t.Setenv("NO_COLOR", "1")

	p, err := paths.New()
	require.NoError(t, err)
	return p
}

// Environment returns a host description with no package managers
func Environment(os, version, arch string, ramGB uint64) types.Environment {
	return types.Environment{
		OS:          os,
		OSVersion:   version,
		CPUArch:     arch,
		RAMGB:       ramGB,
		PkgManagers: []string{},
	}
}

// WriteSnapshot saves env as JSON in dir and returns the file path
func WriteSnapshot(t *testing.T, dir string, env types.Environment) string {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return WriteFile(t, dir, env.OS+"-env.json", string(data))
}

// WriteFile creates dir/name with content and returns its path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
