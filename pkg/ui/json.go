package ui

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/enzyme/pkg/core"
	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/executor"
	"github.com/arthur-debert/enzyme/pkg/planner"
	"github.com/arthur-debert/enzyme/pkg/types"
)

type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(w io.Writer, opts Options) *jsonRenderer {
	encoder := json.NewEncoder(w)
	if !opts.Raw {
		encoder.SetIndent("", "  ")
	}
	return &jsonRenderer{encoder: encoder}
}

// PlanOutput is the JSON shape of `enzyme plan`
type PlanOutput struct {
	Environment types.Environment        `json:"environment"`
	Evaluations []planner.ModeEvaluation `json:"evaluations,omitempty"`
	Plan        *types.InstallPlan       `json:"plan,omitempty"`
}

// InstallOutput is the JSON shape of `enzyme install`
type InstallOutput struct {
	RunID  string                 `json:"run_id"`
	DryRun bool                   `json:"dry_run"`
	Plan   types.InstallPlan      `json:"plan"`
	Result *types.ExecutionResult `json:"result,omitempty"`
	Record *types.InstallRecord   `json:"record,omitempty"`
	Error  *ErrorOutput           `json:"error,omitempty"`
}

// ErrorOutput is the JSON shape of a failure
type ErrorOutput struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Step    *int                   `json:"step,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewPlanOutput builds the JSON view of a planning result
func NewPlanOutput(res *core.PlanResult, explain bool) PlanOutput {
	out := PlanOutput{Environment: res.Environment}
	if explain {
		out.Evaluations = res.Evaluations
	}
	if res.Plan.ChosenMode != "" {
		plan := res.Plan
		out.Plan = &plan
	}
	return out
}

// NewInstallOutput builds the JSON view of an install
func NewInstallOutput(res *core.InstallResult) InstallOutput {
	out := InstallOutput{
		RunID:  res.RunID,
		DryRun: res.Record == nil,
		Plan:   res.Plan.Plan,
		Record: res.Record,
	}
	if res.Record != nil {
		result := res.Result
		out.Result = &result
	}
	if res.ExecErr != nil {
		out.Error = NewErrorOutput(res.ExecErr)
	}
	return out
}

// NewErrorOutput extracts the code, message and failing step from err
func NewErrorOutput(err error) *ErrorOutput {
	out := &ErrorOutput{
		Code:    errors.GetErrorCode(err),
		Message: err.Error(),
	}
	var sf *executor.StepFailedError
	if stderrors.As(err, &sf) {
		index := sf.Index
		out.Step = &index
		out.Code = errors.ErrStepFailed
		return out
	}
	var ncm *planner.NoCompatibleModeError
	if stderrors.As(err, &ncm) {
		out.Code = errors.ErrNoCompatibleMode
		out.Details = map[string]interface{}{"reasons": ncm.Reasons}
		return out
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		out.Details = details
	}
	return out
}

func (r *jsonRenderer) Environment(env types.Environment) error {
	return r.encoder.Encode(env)
}

func (r *jsonRenderer) Plan(res *core.PlanResult, explain bool) error {
	return r.encoder.Encode(NewPlanOutput(res, explain))
}

func (r *jsonRenderer) Install(res *core.InstallResult) error {
	return r.encoder.Encode(NewInstallOutput(res))
}

func (r *jsonRenderer) History(records []types.InstallRecord) error {
	if records == nil {
		records = []types.InstallRecord{}
	}
	return r.encoder.Encode(types.State{Installs: records})
}

func (r *jsonRenderer) Error(err error) error {
	return r.encoder.Encode(map[string]*ErrorOutput{"error": NewErrorOutput(err)})
}

func (r *jsonRenderer) Message(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
