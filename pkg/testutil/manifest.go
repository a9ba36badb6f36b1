package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// ManifestBuilder assembles a manifest document step by step
type ManifestBuilder struct {
	doc map[string]interface{}
}

// NewManifest starts a manifest with the given name and version
func NewManifest(name, version string) *ManifestBuilder {
	return &ManifestBuilder{doc: map[string]interface{}{
		"name":    name,
		"version": version,
		"modes":   map[string]interface{}{},
	}}
}

// Mode adds a mode whose platform steps are run commands. requirements may
// be nil.
func (b *ManifestBuilder) Mode(name string, requirements map[string]interface{}, steps map[string][]string) *ManifestBuilder {
	platforms := map[string]interface{}{}
	for platform, cmds := range steps {
		list := make([]map[string]interface{}, 0, len(cmds))
		for _, cmd := range cmds {
			list = append(list, map[string]interface{}{"run": cmd})
		}
		platforms[platform] = list
	}

	mode := map[string]interface{}{"steps": platforms}
	if requirements != nil {
		mode["requirements"] = requirements
	}
	b.doc["modes"].(map[string]interface{})[name] = mode
	return b
}

// JSON returns the manifest document
func (b *ManifestBuilder) JSON(t *testing.T) string {
	t.Helper()
	data, err := json.MarshalIndent(b.doc, "", "  ")
	require.NoError(t, err)
	return string(data)
}

// Write saves the manifest as dir/<name>.json and returns the path
func (b *ManifestBuilder) Write(t *testing.T, dir string) string {
	t.Helper()
	return WriteFile(t, dir, b.doc["name"].(string)+".json", b.JSON(t))
}
