package types

import (
	"fmt"
	"sort"
	"strings"
)

// OsConstraint restricts a mode to an OS family, optionally with a
// minimum version
type OsConstraint struct {
	Family     string
	MinVersion string
}

// HasMinVersion reports whether the constraint carries a version bound
func (c OsConstraint) HasMinVersion() bool {
	return c.MinVersion != ""
}

// String renders the constraint the way it is written in a manifest
func (c OsConstraint) String() string {
	if c.HasMinVersion() {
		return c.Family + ">=" + c.MinVersion
	}
	return c.Family
}

// ParseOsConstraint parses "family" or "family>=version".
// The family is lower-cased; surrounding whitespace is ignored.
func ParseOsConstraint(raw string) (OsConstraint, error) {
	if idx := strings.Index(raw, ">="); idx >= 0 {
		family := strings.ToLower(strings.TrimSpace(raw[:idx]))
		version := strings.TrimSpace(raw[idx+2:])
		if family == "" || version == "" {
			return OsConstraint{}, fmt.Errorf("invalid os constraint %q: expected family>=version", raw)
		}
		return OsConstraint{Family: family, MinVersion: version}, nil
	}

	family := strings.TrimSpace(raw)
	if family == "" {
		return OsConstraint{}, fmt.Errorf("invalid os constraint %q: empty family", raw)
	}
	return OsConstraint{Family: strings.ToLower(family)}, nil
}

// Requirements are the predicates a host must satisfy for a mode.
// Empty or nil fields impose no restriction.
type Requirements struct {
	OS      []OsConstraint
	CPUArch []string
	RAMGB   *uint64
}

// RAM returns the RAM requirement, or 0 when none is set
func (r *Requirements) RAM() uint64 {
	if r == nil || r.RAMGB == nil {
		return 0
	}
	return *r.RAMGB
}

// Mode is a named installation variant
type Mode struct {
	Requirements *Requirements
	// Steps maps a platform name to its ordered step list
	Steps map[string][]Step
}

// Manifest declares an application and its installation modes
type Manifest struct {
	Name       string
	Version    string
	Modes      map[string]Mode
	RuntimeEnv *RuntimeEnv
}

// ModeNames returns the mode names in manifest iteration order, which is
// ascending lexical order so results do not depend on the source format.
func (m *Manifest) ModeNames() []string {
	names := make([]string, 0, len(m.Modes))
	for name := range m.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuntimeEnvType names a supported runtime environment
type RuntimeEnvType string

const (
	RuntimeEnvNodeLocal  RuntimeEnvType = "node_local"
	RuntimeEnvPythonVenv RuntimeEnvType = "python_venv"
)

// RuntimeEnv is an isolated interpreter environment prepared before steps run
type RuntimeEnv struct {
	Type RuntimeEnvType `json:"type"`
	Root string         `json:"root"`
	Node *NodeRuntime   `json:"node,omitempty"`
}

// NodeRuntime carries node_local options
type NodeRuntime struct {
	// InstallStrategy is free-form; a value containing "global" allows
	// falling back to a node binary already on PATH.
	InstallStrategy string `json:"install_strategy,omitempty"`
}
