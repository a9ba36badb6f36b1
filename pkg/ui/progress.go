package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/pterm/pterm"
)

// StepProgress prints one line when a step starts and one when it ends.
// It implements executor.Observer.
type StepProgress struct {
	w      io.Writer
	styled bool
	start  time.Time
}

// NewStepProgress writes progress lines to w, styled with pterm prefixes
// when format is FormatTerminal.
func NewStepProgress(w io.Writer, format Format) *StepProgress {
	return &StepProgress{w: w, styled: format == FormatTerminal}
}

func (p *StepProgress) StepStarted(index, total int, step types.PlannedStep) {
	p.start = time.Now()
	line := fmt.Sprintf("[%d/%d] %s", index+1, total, step.Description)
	if p.styled {
		_, _ = fmt.Fprint(p.w, pterm.Info.Sprintln(line))
		return
	}
	_, _ = fmt.Fprintln(p.w, line)
}

func (p *StepProgress) StepFinished(index, total int, step types.PlannedStep, err error) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	if err != nil {
		line := fmt.Sprintf("[%d/%d] failed: %v", index+1, total, err)
		if p.styled {
			_, _ = fmt.Fprint(p.w, pterm.Error.Sprintln(line))
			return
		}
		_, _ = fmt.Fprintln(p.w, line)
		return
	}

	line := fmt.Sprintf("[%d/%d] done in %s", index+1, total, elapsed)
	if p.styled {
		_, _ = fmt.Fprint(p.w, pterm.Success.Sprintln(line))
		return
	}
	_, _ = fmt.Fprintln(p.w, line)
}
