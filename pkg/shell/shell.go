// Package shell runs the commands of Run steps.
//
// Two runners are provided. Native hands the script to the host shell
// (/bin/sh -c, or cmd /C on windows) the way a user typing it would.
// Virtual interprets POSIX shell in-process with mvdan.cc/sh, which gives
// the same behaviour on every host that has the invoked binaries.
package shell

import (
	"context"
	"fmt"
	"io"
)

// Runner names accepted by ForName
const (
	NativeName  = "native"
	VirtualName = "virtual"
)

// Command is a script to run for a target OS
type Command struct {
	// OS is the plan platform; it picks the native shell
	OS     string
	Script string
	// Env is the complete environment as KEY=VALUE pairs; nil inherits the
	// current process environment
	Env []string
	// Dir is the working directory; empty means the current one
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes a Command and waits for it
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a command that ran and exited non-zero
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// ForName returns the runner registered under name
func ForName(name string) (Runner, error) {
	switch name {
	case "", NativeName:
		return NewNative(), nil
	case VirtualName:
		return NewVirtual(), nil
	default:
		return nil, fmt.Errorf("unknown shell %q", name)
	}
}
