package planner

import (
	"strconv"
	"strings"
)

// ParseVersion splits a dotted version into integer components. It fails
// if any component is not a non-negative integer.
func ParseVersion(version string) ([]uint64, bool) {
	fields := strings.Split(version, ".")
	parts := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, false
		}
		parts = append(parts, n)
	}
	return parts, true
}

// CompareVersions compares component-wise, padding the shorter side with
// zeros. It returns -1, 0 or 1.
func CompareVersions(a, b []uint64) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var left, right uint64
		if i < len(a) {
			left = a[i]
		}
		if i < len(b) {
			right = b[i]
		}
		switch {
		case left < right:
			return -1
		case left > right:
			return 1
		}
	}
	return 0
}

// VersionMeets reports whether actual >= minVersion. When either side is
// not a dotted integer version only exact equality satisfies it.
func VersionMeets(minVersion, actual string) bool {
	minParts, okMin := ParseVersion(minVersion)
	actualParts, okActual := ParseVersion(actual)
	if !okMin || !okActual {
		return actual == minVersion
	}
	return CompareVersions(actualParts, minParts) >= 0
}
