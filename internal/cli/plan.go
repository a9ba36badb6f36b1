package cli

import (
	"github.com/arthur-debert/enzyme/pkg/core"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		envFile string
		raw     bool
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "plan <manifest>",
		Short: MsgPlanShort,
		Long: `Plan validates the manifest, selects the mode this machine (or the
environment snapshot given with --env) should use, and prints its steps
without running anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.plan")
			logger.Info().Str("manifest", args[0]).Str("env", envFile).Msg("Planning")

			r, _, err := a.renderer(cmd, raw)
			if err != nil {
				return err
			}

			res, err := core.PlanInstall(cmd.Context(), core.PlanOptions{
				ManifestPath:    args[0],
				EnvironmentPath: envFile,
			})
			if err != nil {
				if renderErr := r.Error(err); renderErr != nil {
					return err
				}
				return reported(err)
			}
			return r.Plan(res, explain)
		},
	}

	cmd.Flags().StringVar(&envFile, "env", "", "Plan against an environment snapshot (JSON from `enzyme detect`)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print compact JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show why each mode was accepted or rejected")
	return cmd
}
