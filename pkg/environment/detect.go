package environment

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const bytesPerGiB = 1 << 30

// Prober holds the host lookups used by Detect. Zero fields fall back to
// the real implementations.
type Prober struct {
	GOOS     string
	GOARCH   string
	LookPath func(file string) (string, error)
	HostInfo func(ctx context.Context) (*host.InfoStat, error)
	Memory   func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// packageManagers lists the tools checked per OS, in report order
var packageManagers = map[string][]string{
	types.PlatformMacOS:   {"brew", "port"},
	types.PlatformWindows: {"winget", "choco", "scoop"},
	types.PlatformLinux:   {"apt", "dnf", "yum", "pacman", "zypper", "apk", "brew", "snap", "flatpak"},
}

// Detect probes the current host
func Detect(ctx context.Context) (types.Environment, error) {
	return Prober{}.Detect(ctx)
}

// Detect builds an Environment from the prober's lookups
func (p Prober) Detect(ctx context.Context) (types.Environment, error) {
	logger := logging.GetLogger("environment")
	p = p.withDefaults()

	env := types.Environment{
		OS:      NormalizeOS(p.GOOS),
		CPUArch: NormalizeArch(p.GOARCH),
	}

	env.OSVersion = "unknown"
	info, err := p.HostInfo(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Host info unavailable, OS version unknown")
	} else if info != nil {
		switch {
		case strings.TrimSpace(info.PlatformVersion) != "":
			env.OSVersion = strings.TrimSpace(info.PlatformVersion)
		case strings.TrimSpace(info.KernelVersion) != "":
			env.OSVersion = strings.TrimSpace(info.KernelVersion)
		}
	}

	vm, err := p.Memory(ctx)
	if err != nil {
		return types.Environment{}, errors.Wrap(err, errors.ErrEnvDetect, "failed to read memory information")
	}
	env.RAMGB = vm.Total / bytesPerGiB

	env.PkgManagers = p.detectPackageManagers(env.OS)
	env.Fingerprint = Fingerprint(env)

	logger.Debug().
		Str("os", env.OS).
		Str("os_version", env.OSVersion).
		Str("cpu_arch", env.CPUArch).
		Uint64("ram_gb", env.RAMGB).
		Strs("pkg_managers", env.PkgManagers).
		Msg("Environment detected")

	return env, nil
}

func (p Prober) withDefaults() Prober {
	if p.GOOS == "" {
		p.GOOS = runtime.GOOS
	}
	if p.GOARCH == "" {
		p.GOARCH = runtime.GOARCH
	}
	if p.LookPath == nil {
		p.LookPath = exec.LookPath
	}
	if p.HostInfo == nil {
		p.HostInfo = host.InfoWithContext
	}
	if p.Memory == nil {
		p.Memory = mem.VirtualMemoryWithContext
	}
	return p
}

func (p Prober) detectPackageManagers(os string) []string {
	found := []string{}
	for _, name := range packageManagers[os] {
		if _, err := p.LookPath(name); err == nil {
			found = append(found, name)
		}
	}
	return found
}

// NormalizeOS maps a Go GOOS value to a manifest platform name
func NormalizeOS(goos string) string {
	switch goos {
	case "darwin":
		return types.PlatformMacOS
	default:
		return strings.ToLower(goos)
	}
}

// NormalizeArch maps a Go GOARCH value to the arch names used in manifests
func NormalizeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return strings.ToLower(goarch)
	}
}
