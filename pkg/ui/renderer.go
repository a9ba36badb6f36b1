package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/enzyme/pkg/core"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// Renderer prints command results in one output format
type Renderer interface {
	Environment(env types.Environment) error
	// Plan prints the selected plan; explain adds the per-mode verdicts
	Plan(res *core.PlanResult, explain bool) error
	Install(res *core.InstallResult) error
	History(records []types.InstallRecord) error
	Error(err error) error
	Message(msg string) error
}

// Options tune a renderer
type Options struct {
	// Raw disables JSON indentation
	Raw bool
	// Width wraps markdown reports; zero uses 80 columns
	Width int
}

// NewRenderer creates a renderer for format writing to w. FormatAuto is
// resolved against w when it is a file and falls back to text otherwise.
func NewRenderer(format Format, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatAuto:
		if f, ok := w.(*os.File); ok {
			return NewRenderer(DetectFormat(f), w, opts)
		}
		return NewRenderer(FormatText, w, opts)
	case FormatTerminal:
		return newTextRenderer(w, terminalPalette(), opts), nil
	case FormatText:
		return newTextRenderer(w, plainPalette(), opts), nil
	case FormatJSON:
		return newJSONRenderer(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
