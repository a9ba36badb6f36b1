package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/arthur-debert/enzyme/pkg/logging"
)

// Native runs scripts through the host shell
type Native struct{}

// NewNative creates a host shell runner
func NewNative() *Native {
	return &Native{}
}

// Args returns the program and arguments used for script on os
func (n *Native) Args(platform, script string) (string, []string) {
	if platform == "windows" {
		return "cmd", []string{"/C", script}
	}
	return "/bin/sh", []string{"-c", script}
}

func (n *Native) Run(ctx context.Context, cmd Command) error {
	name, args := n.Args(cmd.OS, cmd.Script)
	logging.LogCommand(name, args)

	c := exec.CommandContext(ctx, name, args...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stdout = writerOr(cmd.Stdout, os.Stdout)
	c.Stderr = writerOr(cmd.Stderr, os.Stderr)

	err := c.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("command interrupted: %w", ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to spawn %s: %w", name, err)
}
