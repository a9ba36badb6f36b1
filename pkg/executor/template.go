package executor

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/spf13/afero"
)

func (e *Executor) renderTemplate(step types.TemplateConfigStep) error {
	source, err := afero.ReadFile(e.fs, step.Source)
	if err != nil {
		return fmt.Errorf("opening template %s: %w", step.Source, err)
	}

	rendered := RenderPlaceholders(string(source), step.Vars)

	if err := filesystem.EnsureParent(e.fs, step.Dest); err != nil {
		return fmt.Errorf("creating parent of %s: %w", step.Dest, err)
	}
	if err := afero.WriteFile(e.fs, step.Dest, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("writing templated config %s: %w", step.Dest, err)
	}
	return nil
}

// RenderPlaceholders replaces {{ key }} with vars[key], scanning left to
// right. Keys are trimmed. Placeholders without a value are kept verbatim,
// and an opening {{ with no closing }} ends scanning.
func RenderPlaceholders(template string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(rest[:start])
		key := rest[start+2 : end]
		if value, ok := vars[strings.TrimSpace(key)]; ok {
			b.WriteString(value)
		} else {
			b.WriteString("{{")
			b.WriteString(key)
			b.WriteString("}}")
		}
		rest = rest[end+2:]
	}

	b.WriteString(rest)
	return b.String()
}
