package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/runtimeenv"
	"github.com/arthur-debert/enzyme/pkg/shell"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultUserAgent is sent with downloads when none is configured
const DefaultUserAgent = "enzyme-installer"

// Options contains configuration for the executor
type Options struct {
	// Fs receives downloads, extracted files and rendered templates
	Fs         afero.Fs
	Runner     shell.Runner
	HTTPClient *http.Client
	// Logger defaults to the "executor" component logger
	Logger *zerolog.Logger

	// Zero means no deadline
	CommandTimeout  time.Duration
	DownloadTimeout time.Duration
	UserAgent       string

	// Env is added to the environment of Run steps
	Env map[string]string
	// Stdout and Stderr receive Run step output; nil uses the process streams
	Stdout io.Writer
	Stderr io.Writer

	Observer Observer
	// Canonicalize resolves symlinks for archive containment checks
	Canonicalize func(string) (string, error)
	// Runtime configures runtime environment preparation
	Runtime runtimeenv.Options
}

// Executor runs install plans
type Executor struct {
	fs              afero.Fs
	runner          shell.Runner
	client          *http.Client
	logger          zerolog.Logger
	commandTimeout  time.Duration
	downloadTimeout time.Duration
	userAgent       string
	env             map[string]string
	stdout          io.Writer
	stderr          io.Writer
	observer        Observer
	canonicalize    func(string) (string, error)
	runtime         runtimeenv.Options
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	runner := opts.Runner
	if runner == nil {
		runner = shell.NewNative()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	canonicalize := opts.Canonicalize
	if canonicalize == nil {
		canonicalize = CanonicalPath
	}
	runtimeOpts := opts.Runtime
	if runtimeOpts.Fs == nil {
		runtimeOpts.Fs = fs
	}

	return &Executor{
		fs:              fs,
		runner:          runner,
		client:          client,
		logger:          logger,
		commandTimeout:  opts.CommandTimeout,
		downloadTimeout: opts.DownloadTimeout,
		userAgent:       userAgent,
		env:             opts.Env,
		stdout:          opts.Stdout,
		stderr:          opts.Stderr,
		observer:        observer,
		canonicalize:    canonicalize,
		runtime:         runtimeOpts,
	}
}

// Execute runs the steps of plan in order, stopping at the first failure.
// The returned result counts the steps that completed.
func (e *Executor) Execute(ctx context.Context, plan types.InstallPlan) (types.ExecutionResult, error) {
	total := len(plan.Steps)
	result := types.ExecutionResult{TotalSteps: total}

	done := logging.LogOperationStart(e.logger, "execute")
	defer done()

	e.logger.Info().
		Str("app", plan.AppName).
		Str("version", plan.AppVersion).
		Str("mode", plan.ChosenMode).
		Int("steps", total).
		Msg("Executing plan")

	rc, err := runtimeenv.Prepare(ctx, plan, e.runtime)
	if err != nil {
		return result, errors.Wrap(err, errors.ErrExecution, "runtime environment preparation failed")
	}
	environ := e.environ(rc)

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return result, stepFailed(i, fmt.Errorf("cancelled before start: %w", err))
		}

		e.observer.StepStarted(i, total, step)
		e.logger.Debug().
			Int("index", i).
			Str("kind", stepKind(step.Step)).
			Str("description", step.Description).
			Msg("Executing step")

		start := time.Now()
		err := e.executeStep(ctx, plan.OS, step, environ)
		e.observer.StepFinished(i, total, step, err)

		if err != nil {
			e.logger.Error().
				Err(err).
				Int("index", i).
				Str("description", step.Description).
				Msg("Step failed")
			return result, stepFailed(i, err)
		}

		e.logger.Info().
			Int("index", i).
			Str("description", step.Description).
			Dur("duration", time.Since(start)).
			Msg("Step completed")
		result.CompletedSteps++
	}

	return result, nil
}

func (e *Executor) executeStep(ctx context.Context, platform string, planned types.PlannedStep, environ []string) error {
	switch step := planned.Step.(type) {
	case types.RunStep:
		return e.run(ctx, platform, step, environ)
	case types.DownloadStep:
		return e.download(ctx, step)
	case types.ExtractStep:
		return e.extract(step, platform)
	case types.TemplateConfigStep:
		return e.renderTemplate(step)
	case nil:
		return fmt.Errorf("step %q has no action", planned.Description)
	default:
		return fmt.Errorf("unsupported step kind %s", step.Kind())
	}
}

// environ returns the environment for Run steps, or nil to inherit
func (e *Executor) environ(rc *runtimeenv.Context) []string {
	if rc == nil && len(e.env) == 0 {
		return nil
	}
	merged := &runtimeenv.Context{Env: map[string]string{}}
	for k, v := range e.env {
		merged.Env[k] = v
	}
	if rc != nil {
		for k, v := range rc.Env {
			merged.Env[k] = v
		}
		merged.PathPrefixes = rc.PathPrefixes
	}
	return merged.Merge(os.Environ())
}

func stepKind(step types.Step) string {
	if step == nil {
		return "none"
	}
	return string(step.Kind())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
