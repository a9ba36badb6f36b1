package cli

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/enzyme/pkg/cobrax/topics"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/spf13/cobra"
)

//go:embed docs/*.md docs/*.txt
var docsFS embed.FS

// installTopics adds "enzyme help <topic>" backed by the embedded docs
func installTopics(rootCmd *cobra.Command) {
	logger := logging.GetLogger("cli")
	docs, err := fs.Sub(docsFS, "docs")
	if err != nil {
		logger.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	m, err := topics.New(docs, topics.Options{Renderer: topics.NewGlamourRenderer()})
	if err != nil {
		logger.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	m.Install(rootCmd)
}
