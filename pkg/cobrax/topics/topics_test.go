package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"manifest.md":        {Data: []byte("# Manifest\n\nModes and steps")},
		"option-dry-run.txt": {Data: []byte("Dry run stops after planning")},
		"nested/history.md":  {Data: []byte("# History")},
		"ignore.json":        {Data: []byte("{}")},
	}
}

func TestManager_Scan(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"history", "manifest", "option-dry-run"}, m.List())

	topic, ok := m.Get("manifest")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Format())
	assert.Contains(t, topic.Content, "Modes and steps")

	_, ok = m.Get("ignore")
	assert.False(t, ok)
}

func TestManager_CustomExtensions(t *testing.T) {
	m, err := New(testFS(), Options{Extensions: []string{".json"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ignore"}, m.List())
}

func TestManager_FlagTopics(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	for _, name := range []string{"--dry-run", "-dry-run", "dry-run", "option-dry-run"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-dry-run", topic.Name)
	}
}

func TestManager_NilFS(t *testing.T) {
	m, err := New(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, m.List())
	assert.Equal(t, "No help topics available.\n", m.index("app"))
}

func TestManager_HelpCommand(t *testing.T) {
	root := &cobra.Command{Use: "app"}
	root.AddCommand(&cobra.Command{Use: "install", Short: "Install things", Run: func(*cobra.Command, []string) {}})

	m, err := New(testFS(), Options{})
	require.NoError(t, err)
	m.Install(root)

	exec := func(args ...string) string {
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return out.String()
	}

	out := exec("help", "topics")
	assert.Contains(t, out, "General topics:\n  history\n  manifest")
	assert.Contains(t, out, "Option topics:\n  --dry-run")
	assert.Contains(t, out, "Use 'app help <topic>'")

	assert.Equal(t, "# Manifest\n\nModes and steps", exec("help", "manifest"))
	assert.Equal(t, "Dry run stops after planning", exec("help", "--dry-run"))
	assert.Contains(t, exec("help", "install"), "Install things")
}

func TestGlamourRenderer_NonMarkdownUnchanged(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
	assert.NotEmpty(t, r.Render("# Title", ".md"))
}
