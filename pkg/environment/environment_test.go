// pkg/environment/environment_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: injected Prober, temp files
// PURPOSE: Verify host normalisation, package manager detection and snapshots

package environment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProber(goos, goarch string, onPath ...string) Prober {
	available := map[string]bool{}
	for _, name := range onPath {
		available[name] = true
	}
	return Prober{
		GOOS:   goos,
		GOARCH: goarch,
		LookPath: func(file string) (string, error) {
			if available[file] {
				return "/usr/bin/" + file, nil
			}
			return "", fmt.Errorf("%s: not found", file)
		},
		HostInfo: func(ctx context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{PlatformVersion: "14.2", KernelVersion: "23.2.0"}, nil
		},
		Memory: func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16*bytesPerGiB + 123456}, nil
		},
	}
}

func TestProberDetect(t *testing.T) {
	ctx := context.Background()

	t.Run("macos", func(t *testing.T) {
		env, err := fakeProber("darwin", "arm64", "brew", "apt").Detect(ctx)
		require.NoError(t, err)

		assert.Equal(t, "macos", env.OS)
		assert.Equal(t, "14.2", env.OSVersion)
		assert.Equal(t, "arm64", env.CPUArch)
		assert.Equal(t, uint64(16), env.RAMGB)
		assert.Equal(t, []string{"brew"}, env.PkgManagers)
		assert.Equal(t, Fingerprint(env), env.Fingerprint)
	})

	t.Run("windows_reports_in_fixed_order", func(t *testing.T) {
		env, err := fakeProber("windows", "amd64", "scoop", "winget").Detect(ctx)
		require.NoError(t, err)

		assert.Equal(t, "windows", env.OS)
		assert.Equal(t, "x64", env.CPUArch)
		assert.Equal(t, []string{"winget", "scoop"}, env.PkgManagers)
	})

	t.Run("no_package_managers_is_empty_not_nil", func(t *testing.T) {
		env, err := fakeProber("linux", "386").Detect(ctx)
		require.NoError(t, err)

		assert.Equal(t, "x86", env.CPUArch)
		assert.NotNil(t, env.PkgManagers)
		assert.Empty(t, env.PkgManagers)
	})

	t.Run("os_version_falls_back", func(t *testing.T) {
		p := fakeProber("linux", "amd64")
		p.HostInfo = func(ctx context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{KernelVersion: "6.5.0"}, nil
		}
		env, err := p.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, "6.5.0", env.OSVersion)

		p.HostInfo = func(ctx context.Context) (*host.InfoStat, error) {
			return nil, fmt.Errorf("boom")
		}
		env, err = p.Detect(ctx)
		require.NoError(t, err)
		assert.Equal(t, "unknown", env.OSVersion)
	})

	t.Run("memory_failure_is_detect_error", func(t *testing.T) {
		p := fakeProber("linux", "amd64")
		p.Memory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
			return nil, fmt.Errorf("no /proc")
		}
		_, err := p.Detect(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrEnvDetect))
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "macos", NormalizeOS("darwin"))
	assert.Equal(t, "linux", NormalizeOS("linux"))
	assert.Equal(t, "windows", NormalizeOS("windows"))
	assert.Equal(t, "freebsd", NormalizeOS("freebsd"))

	assert.Equal(t, "x64", NormalizeArch("amd64"))
	assert.Equal(t, "x86", NormalizeArch("386"))
	assert.Equal(t, "arm64", NormalizeArch("arm64"))
	assert.Equal(t, "riscv64", NormalizeArch("riscv64"))
}

func TestFingerprint(t *testing.T) {
	base := types.Environment{OS: "linux", OSVersion: "22.04", CPUArch: "x64", RAMGB: 8, PkgManagers: []string{"apt"}}

	fp := Fingerprint(base)
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint(base), "fingerprint is stable")

	changed := base
	changed.RAMGB = 16
	assert.NotEqual(t, fp, Fingerprint(changed))

	// The stored fingerprint does not feed into itself
	withFP := base
	withFP.Fingerprint = "ffffffffffffffff"
	assert.Equal(t, fp, Fingerprint(withFP))
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	t.Run("computes_missing_fingerprint", func(t *testing.T) {
		path := filepath.Join(dir, "env.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"os": "macos", "os_version": "13.0", "cpu_arch": "arm64",
			"ram_gb": 32, "pkg_managers": ["brew"]
		}`), 0644))

		env, err := LoadSnapshot(path)
		require.NoError(t, err)
		assert.Equal(t, "macos", env.OS)
		assert.Equal(t, uint64(32), env.RAMGB)
		assert.Equal(t, Fingerprint(env), env.Fingerprint)
	})

	t.Run("keeps_given_fingerprint", func(t *testing.T) {
		path := filepath.Join(dir, "env-fp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"os":"linux","os_version":"x","cpu_arch":"x64","ram_gb":1,"pkg_managers":[],"fingerprint":"abc"}`), 0644))

		env, err := LoadSnapshot(path)
		require.NoError(t, err)
		assert.Equal(t, "abc", env.Fingerprint)
	})

	t.Run("errors", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0644))
		noOS := filepath.Join(dir, "noos.json")
		require.NoError(t, os.WriteFile(noOS, []byte(`{"ram_gb": 4}`), 0644))

		for _, path := range []string{filepath.Join(dir, "missing.json"), bad, noOS} {
			_, err := LoadSnapshot(path)
			require.Error(t, err, path)
			assert.True(t, errors.IsErrorCode(err, errors.ErrEnvSnapshot), path)
		}
	})
}
