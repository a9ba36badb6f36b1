package environment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the identifying fields of env. Hosts that would be
// planned identically share a fingerprint.
func Fingerprint(env types.Environment) string {
	parts := []string{
		env.OS,
		env.OSVersion,
		env.CPUArch,
		strconv.FormatUint(env.RAMGB, 10),
	}
	parts = append(parts, env.PkgManagers...)
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "|")))
}
