package cli

import (
	"github.com/arthur-debert/enzyme/pkg/environment"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/spf13/cobra"
)

func newDetectCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: MsgDetectShort,
		Long: `Detect probes the operating system, CPU architecture, memory and package
managers of this machine. The JSON output can be saved and passed to
"enzyme plan --env" to plan for another host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.detect")

			r, _, err := a.renderer(cmd, raw)
			if err != nil {
				return err
			}

			env, err := environment.Detect(cmd.Context())
			if err != nil {
				return err
			}
			logger.Debug().Str("fingerprint", env.Fingerprint).Msg("Environment detected")
			return r.Environment(env)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print compact JSON")
	return cmd
}
