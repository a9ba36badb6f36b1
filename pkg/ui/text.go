package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arthur-debert/enzyme/pkg/core"
	"github.com/arthur-debert/enzyme/pkg/executor"
	"github.com/arthur-debert/enzyme/pkg/planner"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// textRenderer serves both the plain and the styled formats; only the
// palette differs.
type textRenderer struct {
	w     io.Writer
	p     palette
	width int
}

func newTextRenderer(w io.Writer, p palette, opts Options) *textRenderer {
	return &textRenderer{w: w, p: p, width: opts.Width}
}

func (r *textRenderer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.w, format, args...)
	return err
}

func (r *textRenderer) Environment(env types.Environment) error {
	managers := "none"
	if len(env.PkgManagers) > 0 {
		managers = strings.Join(env.PkgManagers, ", ")
	}
	rows := [][2]string{
		{"OS", strings.TrimSpace(env.OS + " " + env.OSVersion)},
		{"CPU", env.CPUArch},
		{"RAM", fmt.Sprintf("%d GiB", env.RAMGB)},
		{"Package managers", managers},
	}
	if env.Fingerprint != "" {
		rows = append(rows, [2]string{"Fingerprint", env.Fingerprint})
	}

	if err := r.printf("%s\n", r.p.title("Environment")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.printf("  %-18s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) Plan(res *core.PlanResult, explain bool) error {
	if explain {
		if err := r.evaluations(res.Evaluations); err != nil {
			return err
		}
	}
	return r.plan(res.Plan)
}

func (r *textRenderer) evaluations(evals []planner.ModeEvaluation) error {
	if err := r.printf("%s\n", r.p.title("Modes")); err != nil {
		return err
	}
	for _, eval := range evals {
		line := fmt.Sprintf("  %s %s", r.p.success("✓"), eval.Name)
		if !eval.Compatible {
			line = fmt.Sprintf("  %s %s", r.p.failure("✗"), r.p.muted(eval.Reason))
		}
		if err := r.printf("%s\n", line); err != nil {
			return err
		}
	}
	return r.printf("\n")
}

func (r *textRenderer) plan(plan types.InstallPlan) error {
	header := fmt.Sprintf("%s %s", plan.AppName, plan.AppVersion)
	if err := r.printf("%s %s\n", r.p.title(header),
		r.p.muted(fmt.Sprintf("(mode %s on %s)", plan.ChosenMode, plan.OS))); err != nil {
		return err
	}
	if len(plan.Steps) == 0 {
		return r.printf("  %s\n", r.p.muted("no steps"))
	}
	for _, step := range plan.Steps {
		if err := r.printf("  %2d. %s\n", step.Index+1, r.p.code(step.Description)); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) Install(res *core.InstallResult) error {
	plan := res.Plan.Plan
	if res.Record == nil {
		if err := r.printf("%s\n", r.p.muted("Dry run, nothing was executed")); err != nil {
			return err
		}
		return r.plan(plan)
	}

	name := fmt.Sprintf("%s %s", plan.AppName, plan.AppVersion)
	if res.ExecErr == nil {
		return r.printf("%s Installed %s %s\n", r.p.success("✓"), r.p.title(name),
			r.p.muted(fmt.Sprintf("(mode %s, %d/%d steps)", plan.ChosenMode,
				res.Result.CompletedSteps, res.Result.TotalSteps)))
	}
	return r.printf("%s Installing %s failed after %d/%d steps\n", r.p.failure("✗"), r.p.title(name),
		res.Result.CompletedSteps, res.Result.TotalSteps)
}

func (r *textRenderer) History(records []types.InstallRecord) error {
	if len(records) == 0 {
		return r.printf("%s\n", r.p.muted("No installs recorded"))
	}
	headers := []string{"TIME", "APP", "VERSION", "MODE", "PLATFORM", "STATUS"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Timestamp.Local().Format(time.DateTime),
			rec.AppName,
			rec.AppVersion,
			rec.Mode,
			rec.OS + "/" + rec.CPUArch,
			string(rec.Status),
		})
	}

	if !r.p.styled {
		tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range rows {
			_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	statusCol := len(headers) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Foreground(accentColor).Bold(true)
			case col == statusCol && rows[row][col] == string(types.InstallStatusFailed):
				return style.Foreground(errorColor)
			case col == statusCol:
				return style.Foreground(successColor)
			}
			return style
		})
	return r.printf("%s\n", t.Render())
}

func (r *textRenderer) Error(err error) error {
	var ncm *planner.NoCompatibleModeError
	if stderrors.As(err, &ncm) {
		report := NoCompatibleModeReport(ncm)
		if r.p.styled {
			report = RenderMarkdown(report, r.width)
		}
		return r.printf("%s", report)
	}

	var sf *executor.StepFailedError
	if stderrors.As(err, &sf) {
		return r.printf("%s step %d failed: %s\n", r.p.failure("✗"), sf.Index+1, sf.Message)
	}
	return r.printf("%s %s\n", r.p.failure("Error:"), err.Error())
}

func (r *textRenderer) Message(msg string) error {
	return r.printf("%s\n", msg)
}
