package testutil

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatePaths(t *testing.T) {
	p := IsolatePaths(t)
	assert.Equal(t, os.Getenv(paths.EnvDataDir), p.DataDir())
	assert.Contains(t, p.HistoryPath(), os.Getenv(paths.EnvDataDir))
}

func TestManifestBuilder(t *testing.T) {
	doc := NewManifest("demo", "1.0").
		Mode("full", map[string]interface{}{"ram_gb": 8}, map[string][]string{"linux": {"echo a", "echo b"}}).
		JSON(t)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &decoded))
	full := decoded["modes"].(map[string]interface{})["full"].(map[string]interface{})
	assert.Len(t, full["steps"].(map[string]interface{})["linux"], 2)
	assert.EqualValues(t, 8, full["requirements"].(map[string]interface{})["ram_gb"])
}

func TestWriteSnapshot(t *testing.T) {
	env := Environment("linux", "6.1", "x64", 4)
	path := WriteSnapshot(t, t.TempDir(), env)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded types.Environment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, env, decoded)
}
