package core

import (
	"context"
	"time"

	"github.com/arthur-debert/enzyme/pkg/executor"
	"github.com/arthur-debert/enzyme/pkg/history"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/google/uuid"
)

// InstallOptions contains options for running an install
type InstallOptions struct {
	PlanOptions

	Executor executor.Options
	// History receives the outcome; nil skips recording
	History history.Store
	// DryRun stops after planning
	DryRun bool
	// Now stamps the history record; defaults to time.Now
	Now func() time.Time
}

// InstallResult describes a finished (or dry) run
type InstallResult struct {
	RunID  string
	Plan   *PlanResult
	Result types.ExecutionResult
	// Record is the outcome handed to history; nil for dry runs
	Record *types.InstallRecord
	// ExecErr is the executor's error, also returned by Install
	ExecErr error
}

// Install plans and executes the manifest, recording the outcome.
//
// Planning errors are returned with a nil result. Execution errors are
// returned unchanged (typically an *executor.StepFailedError) together
// with the result, whose Record holds what was written to history.
func Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	runID := uuid.NewString()
	logger := logging.GetLogger("core").With().Str("run_id", runID).Logger()

	done := logging.LogOperationStart(logger, "install")
	defer done()

	planned, err := PlanInstall(ctx, opts.PlanOptions)
	if err != nil {
		return nil, err
	}

	result := &InstallResult{RunID: runID, Plan: planned}
	if opts.DryRun {
		logger.Info().Str("app", planned.Plan.AppName).Msg("Dry run, skipping execution")
		return result, nil
	}

	execOpts := opts.Executor
	if execOpts.Logger == nil {
		execLogger := logger.With().Str("component", "executor").Logger()
		execOpts.Logger = &execLogger
	}
	result.Result, result.ExecErr = executor.New(execOpts).Execute(ctx, planned.Plan)

	status := types.InstallStatusSuccess
	if result.ExecErr != nil {
		status = types.InstallStatusFailed
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	record := types.NewInstallRecord(planned.Plan, planned.Environment, status, now())
	result.Record = &record

	if opts.History == nil {
		logger.Debug().Msg("No history store configured, outcome not recorded")
	} else if err := opts.History.Append(record); err != nil {
		logger.Warn().Err(err).Msg("Failed to record install history")
	}

	logger.Info().
		Str("app", record.AppName).
		Str("mode", record.Mode).
		Str("status", string(record.Status)).
		Int("completed", result.Result.CompletedSteps).
		Int("total", result.Result.TotalSteps).
		Msg("Install finished")

	return result, result.ExecErr
}
