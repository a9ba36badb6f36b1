package executor

import (
	"context"

	"github.com/arthur-debert/enzyme/pkg/shell"
	"github.com/arthur-debert/enzyme/pkg/types"
)

func (e *Executor) run(ctx context.Context, platform string, step types.RunStep, environ []string) error {
	ctx, cancel := withTimeout(ctx, e.commandTimeout)
	defer cancel()

	return e.runner.Run(ctx, shell.Command{
		OS:     platform,
		Script: step.Cmd,
		Env:    environ,
		Stdout: e.stdout,
		Stderr: e.stderr,
	})
}
