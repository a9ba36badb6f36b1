package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	successColor = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
)

// palette decorates text; the plain palette leaves it untouched
type palette struct {
	title   func(string) string
	success func(string) string
	failure func(string) string
	muted   func(string) string
	code    func(string) string
	styled  bool
}

func plainPalette() palette {
	id := func(s string) string { return s }
	return palette{title: id, success: id, failure: id, muted: id, code: id}
}

func terminalPalette() palette {
	title := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	success := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failure := lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	code := lipgloss.NewStyle().Foreground(accentColor)

	return palette{
		title:   render(title),
		success: render(success),
		failure: render(failure),
		muted:   render(muted),
		code:    render(code),
		styled:  true,
	}
}

func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}
