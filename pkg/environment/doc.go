// Package environment describes the host enzyme is running on.
//
// Detect probes the live machine through gopsutil; LoadSnapshot reads a
// previously captured Environment from JSON so plans can be computed for a
// different host. Both normalise names to the vocabulary manifests use
// (macos rather than darwin, x64 rather than amd64).
package environment
