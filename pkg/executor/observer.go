package executor

import "github.com/arthur-debert/enzyme/pkg/types"

// Observer is notified around each step. index is zero-based.
type Observer interface {
	StepStarted(index, total int, step types.PlannedStep)
	StepFinished(index, total int, step types.PlannedStep, err error)
}

type nopObserver struct{}

func (nopObserver) StepStarted(int, int, types.PlannedStep)         {}
func (nopObserver) StepFinished(int, int, types.PlannedStep, error) {}
