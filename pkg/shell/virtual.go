package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/logging"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Virtual interprets scripts with an embedded POSIX shell. External
// programs are still executed from PATH.
type Virtual struct{}

// NewVirtual creates an in-process shell runner
func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Run(ctx context.Context, cmd Command) error {
	logger := logging.GetLogger("shell")

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), "run")
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(os.Stdin, writerOr(cmd.Stdout, os.Stdout), writerOr(cmd.Stderr, os.Stderr)),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(cmd.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	logger.Debug().Str("script", cmd.Script).Msg("Interpreting script")

	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		if status == 0 {
			return nil
		}
		return &ExitError{Code: int(status)}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("command interrupted: %w", ctx.Err())
	}
	return fmt.Errorf("script execution failed: %w", err)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
