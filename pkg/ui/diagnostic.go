package ui

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/planner"
	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// NoCompatibleModeReport describes a planning failure as markdown
func NoCompatibleModeReport(err *planner.NoCompatibleModeError) string {
	env := err.Environment
	var b strings.Builder

	b.WriteString("# No compatible install mode\n\n")
	b.WriteString("None of the modes in this manifest can be installed on this host.\n\n")
	b.WriteString("| Host | |\n|---|---|\n")
	fmt.Fprintf(&b, "| OS | %s %s |\n", env.OS, env.OSVersion)
	fmt.Fprintf(&b, "| CPU | %s |\n", env.CPUArch)
	fmt.Fprintf(&b, "| RAM | %d GiB |\n", env.RAMGB)
	if len(env.PkgManagers) > 0 {
		fmt.Fprintf(&b, "| Package managers | %s |\n", strings.Join(env.PkgManagers, ", "))
	}

	b.WriteString("\n## Rejected modes\n\n")
	for _, reason := range err.Reasons {
		mode, why, ok := strings.Cut(reason, ": ")
		if !ok {
			fmt.Fprintf(&b, "- %s\n", reason)
			continue
		}
		fmt.Fprintf(&b, "- `%s`: %s\n", mode, why)
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal, returning md unchanged if
// glamour cannot render it.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = defaultWrap
	}
	logger := logging.GetLogger("ui")
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Debug().Err(err).Msg("Markdown renderer unavailable")
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		logger.Debug().Err(err).Msg("Markdown rendering failed")
		return md
	}
	return out
}
