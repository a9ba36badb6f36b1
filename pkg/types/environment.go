package types

// Environment describes the host an installation targets
type Environment struct {
	// OS is the normalised family: linux, macos or windows
	OS        string `json:"os"`
	OSVersion string `json:"os_version"`
	CPUArch   string `json:"cpu_arch"`
	// RAMGB is total memory in whole GiB
	RAMGB       uint64   `json:"ram_gb"`
	PkgManagers []string `json:"pkg_managers"`
	// Fingerprint identifies a host configuration; see environment.Fingerprint
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Platform names recognised in manifests and environments
const (
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
	PlatformWindows = "windows"
)

// KnownPlatforms lists the platforms a manifest may declare steps for
var KnownPlatforms = []string{PlatformLinux, PlatformMacOS, PlatformWindows}

// IsKnownPlatform reports whether name is one of KnownPlatforms
func IsKnownPlatform(name string) bool {
	for _, p := range KnownPlatforms {
		if p == name {
			return true
		}
	}
	return false
}
