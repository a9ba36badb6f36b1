// Package manifest loads application manifests and turns them into
// validated types.Manifest values.
//
// Manifests may be written in JSON, YAML or TOML; the format is picked from
// the file extension. Everything returned by Load has passed validation, so
// the planner and executor never see an empty command or an unknown
// platform.
package manifest
