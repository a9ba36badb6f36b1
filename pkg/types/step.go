package types

import "fmt"

// StepKind names the variant of a Step
type StepKind string

const (
	StepKindRun            StepKind = "run"
	StepKindDownload       StepKind = "download"
	StepKindExtract        StepKind = "extract"
	StepKindTemplateConfig StepKind = "template_config"
)

// Step is one installation action. The set of implementations is closed:
// only the types in this file satisfy it.
type Step interface {
	Kind() StepKind
	// Description is the human-readable line shown in plans
	Description() string
	// Command returns the shell command for Run steps and "" otherwise
	Command() string
	isStep()
}

// RunStep executes a shell command
type RunStep struct {
	Cmd string
}

func (s RunStep) Kind() StepKind      { return StepKindRun }
func (s RunStep) Description() string { return "Run: " + s.Cmd }
func (s RunStep) Command() string     { return s.Cmd }
func (RunStep) isStep()               {}

// DownloadStep fetches URL into Dest
type DownloadStep struct {
	URL  string
	Dest string
}

func (s DownloadStep) Kind() StepKind { return StepKindDownload }
func (s DownloadStep) Description() string {
	return fmt.Sprintf("Download %s -> %s", s.URL, s.Dest)
}
func (s DownloadStep) Command() string { return "" }
func (DownloadStep) isStep()           {}

// ExtractStep unpacks a zip Archive into the Dest directory
type ExtractStep struct {
	Archive string
	Dest    string
}

func (s ExtractStep) Kind() StepKind { return StepKindExtract }
func (s ExtractStep) Description() string {
	return fmt.Sprintf("Extract %s -> %s", s.Archive, s.Dest)
}
func (s ExtractStep) Command() string { return "" }
func (ExtractStep) isStep()           {}

// TemplateConfigStep renders Source with Vars into Dest
type TemplateConfigStep struct {
	Source string
	Dest   string
	Vars   map[string]string
}

func (s TemplateConfigStep) Kind() StepKind { return StepKindTemplateConfig }
func (s TemplateConfigStep) Description() string {
	return fmt.Sprintf("Render template %s -> %s", s.Source, s.Dest)
}
func (s TemplateConfigStep) Command() string { return "" }
func (TemplateConfigStep) isStep()           {}
