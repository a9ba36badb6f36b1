package executor

import (
	"fmt"

	"github.com/arthur-debert/enzyme/pkg/errors"
)

// StepFailedError reports the step that stopped execution
type StepFailedError struct {
	// Index is the zero-based position of the step in the plan
	Index   int
	Message string
	Err     error
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("step %d failed: %s", e.Index, e.Message)
}

// Unwrap yields a STEP_FAILED EnzymeError wrapping the cause
func (e *StepFailedError) Unwrap() error {
	var ee *errors.EnzymeError
	if e.Err != nil {
		ee = errors.Wrap(e.Err, errors.ErrStepFailed, e.Message)
	} else {
		ee = errors.New(errors.ErrStepFailed, e.Message)
	}
	return ee.WithDetail("index", e.Index)
}

func stepFailed(index int, err error) *StepFailedError {
	return &StepFailedError{Index: index, Message: err.Error(), Err: err}
}

// UnsafeEntryError rejects an archive entry that would be written outside
// the extraction directory
type UnsafeEntryError struct {
	Entry  string
	Reason string
}

func (e *UnsafeEntryError) Error() string {
	return fmt.Sprintf("archive entry %s: %s", e.Reason, e.Entry)
}

// Unwrap yields an UNSAFE_ARCHIVE_ENTRY EnzymeError
func (e *UnsafeEntryError) Unwrap() error {
	return errors.New(errors.ErrUnsafeArchiveEntry, e.Error()).WithDetail("entry", e.Entry)
}
