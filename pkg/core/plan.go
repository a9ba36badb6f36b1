package core

import (
	"context"

	"github.com/arthur-debert/enzyme/pkg/environment"
	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/manifest"
	"github.com/arthur-debert/enzyme/pkg/planner"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// PlanOptions contains options for planning an install
type PlanOptions struct {
	ManifestPath string
	// EnvironmentPath, when set, is a JSON snapshot used instead of probing
	EnvironmentPath string

	// Detect probes the host; defaults to environment.Detect
	Detect func(ctx context.Context) (types.Environment, error)
}

// PlanResult is what planning produced
type PlanResult struct {
	Manifest    *types.Manifest
	Environment types.Environment
	// Evaluations has one entry per mode, in manifest order
	Evaluations []planner.ModeEvaluation
	Plan        types.InstallPlan
}

// PlanInstall loads the manifest and environment and selects a mode.
// On a planning failure the partial result (manifest, environment and
// evaluations) is returned alongside the error.
func PlanInstall(ctx context.Context, opts PlanOptions) (*PlanResult, error) {
	logger := logging.GetLogger("core")

	if opts.ManifestPath == "" {
		return nil, errors.New(errors.ErrInvalidInput, "manifest path is required")
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		logger.Error().Err(err).Str("manifest", opts.ManifestPath).Msg("Failed to load manifest")
		return nil, err
	}

	env, err := resolveEnvironment(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to obtain environment")
		return nil, err
	}

	result := &PlanResult{
		Manifest:    m,
		Environment: env,
		Evaluations: planner.Evaluate(m, env),
	}

	plan, err := planner.Plan(m, env)
	if err != nil {
		logger.Warn().Err(err).Str("app", m.Name).Msg("Planning failed")
		return result, err
	}
	result.Plan = plan

	logger.Info().
		Str("app", plan.AppName).
		Str("mode", plan.ChosenMode).
		Str("os", plan.OS).
		Int("steps", len(plan.Steps)).
		Msg("Plan ready")
	return result, nil
}

func resolveEnvironment(ctx context.Context, opts PlanOptions) (types.Environment, error) {
	if opts.EnvironmentPath != "" {
		return environment.LoadSnapshot(opts.EnvironmentPath)
	}
	detect := opts.Detect
	if detect == nil {
		detect = environment.Detect
	}
	return detect(ctx)
}
