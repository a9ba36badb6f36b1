package planner

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// FullModeName is the mode preferred over all others when compatible
const FullModeName = "full"

// ModeEvaluation is the verdict for one mode
type ModeEvaluation struct {
	Name       string `json:"name"`
	Compatible bool   `json:"compatible"`
	// Reason is empty for compatible modes
	Reason string `json:"reason,omitempty"`
	RAMGB  uint64 `json:"ram_gb"`
}

// Evaluate checks every mode against env, in manifest iteration order
func Evaluate(manifest *types.Manifest, env types.Environment) []ModeEvaluation {
	names := manifest.ModeNames()
	evals := make([]ModeEvaluation, 0, len(names))
	for _, name := range names {
		mode := manifest.Modes[name]
		eval := ModeEvaluation{Name: name, RAMGB: mode.Requirements.RAM()}
		if reason := incompatibility(mode, env); reason != "" {
			eval.Reason = fmt.Sprintf("%s: %s", name, reason)
		} else {
			eval.Compatible = true
		}
		evals = append(evals, eval)
	}
	return evals
}

// Plan selects a mode for env and lists its steps for env.OS
func Plan(manifest *types.Manifest, env types.Environment) (types.InstallPlan, error) {
	logger := logging.GetLogger("planner")

	if manifest == nil {
		return types.InstallPlan{}, errors.New(errors.ErrInvalidInput, "manifest is nil")
	}

	evals := Evaluate(manifest, env)

	var compatible []ModeEvaluation
	var reasons []string
	for _, eval := range evals {
		if eval.Compatible {
			compatible = append(compatible, eval)
			logger.Debug().Str("mode", eval.Name).Msg("Mode compatible")
		} else {
			reasons = append(reasons, eval.Reason)
			logger.Debug().Str("mode", eval.Name).Str("reason", eval.Reason).Msg("Mode rejected")
		}
	}

	if len(compatible) == 0 {
		return types.InstallPlan{}, &NoCompatibleModeError{Environment: env, Reasons: reasons}
	}

	chosen := chooseMode(compatible)
	steps := manifest.Modes[chosen].Steps[env.OS]

	plan := types.InstallPlan{
		AppName:    manifest.Name,
		AppVersion: manifest.Version,
		ChosenMode: chosen,
		OS:         env.OS,
		Steps:      make([]types.PlannedStep, 0, len(steps)),
		RuntimeEnv: manifest.RuntimeEnv,
	}
	for i, step := range steps {
		plan.Steps = append(plan.Steps, types.PlannedStep{
			Index:       i,
			Description: step.Description(),
			Command:     step.Command(),
			Step:        step,
		})
	}

	logger.Info().
		Str("app", plan.AppName).
		Str("mode", plan.ChosenMode).
		Str("os", plan.OS).
		Int("steps", len(plan.Steps)).
		Msg("Plan created")

	return plan, nil
}

// chooseMode applies the selection policy to a non-empty list
func chooseMode(compatible []ModeEvaluation) string {
	for _, eval := range compatible {
		if eval.Name == FullModeName {
			return eval.Name
		}
	}
	best := compatible[0]
	for _, eval := range compatible[1:] {
		if eval.RAMGB > best.RAMGB {
			best = eval
		}
	}
	return best.Name
}

// incompatibility returns why mode cannot run on env, or "" if it can.
// Checks run in a fixed order and the first failure wins.
func incompatibility(mode types.Mode, env types.Environment) string {
	if _, ok := mode.Steps[env.OS]; !ok {
		return fmt.Sprintf("missing required steps for %s", env.OS)
	}

	req := mode.Requirements
	if req == nil {
		return ""
	}

	if len(req.OS) > 0 && !anyOSMatches(req.OS, env) {
		constraints := make([]string, len(req.OS))
		for i, c := range req.OS {
			constraints[i] = c.String()
		}
		return fmt.Sprintf("requires OS in [%s], found %s %s",
			strings.Join(constraints, ", "), env.OS, env.OSVersion)
	}

	if len(req.CPUArch) > 0 && !anyArchMatches(req.CPUArch, env.CPUArch) {
		return fmt.Sprintf("requires CPU in [%s], found %s",
			strings.Join(req.CPUArch, ", "), env.CPUArch)
	}

	if req.RAMGB != nil && env.RAMGB < *req.RAMGB {
		return fmt.Sprintf("requires >= %d GiB RAM, found %d GiB", *req.RAMGB, env.RAMGB)
	}

	return ""
}

func anyOSMatches(constraints []types.OsConstraint, env types.Environment) bool {
	for _, c := range constraints {
		if !strings.EqualFold(c.Family, env.OS) {
			continue
		}
		if !c.HasMinVersion() || VersionMeets(c.MinVersion, env.OSVersion) {
			return true
		}
	}
	return false
}

func anyArchMatches(archs []string, actual string) bool {
	for _, a := range archs {
		if strings.EqualFold(a, actual) {
			return true
		}
	}
	return false
}
