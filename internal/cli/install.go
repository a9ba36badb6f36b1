package cli

import (
	"fmt"

	"github.com/arthur-debert/enzyme/pkg/core"
	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/executor"
	"github.com/arthur-debert/enzyme/pkg/history"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/shell"
	"github.com/arthur-debert/enzyme/pkg/ui"
	"github.com/spf13/cobra"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		envFile   string
		dryRun    bool
		raw       bool
		shellName string
	)

	cmd := &cobra.Command{
		Use:   "install <manifest>",
		Short: MsgInstallShort,
		Long:  MsgInstallLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.install")

			// A snapshot describes some other machine; its steps must not run here
			if envFile != "" && !dryRun {
				return errors.New(errors.ErrInvalidInput, MsgErrEnvNeedsDryRun).
					WithDetail("env", envFile)
			}

			r, format, err := a.renderer(cmd, raw)
			if err != nil {
				return err
			}

			if shellName == "" {
				shellName = a.cfg.Execution.Shell
			}
			runner, err := shell.ForName(shellName)
			if err != nil {
				return fmt.Errorf(MsgErrUnknownShell, err)
			}

			// Keep stdout clean for JSON consumers
			stepOut := cmd.OutOrStdout()
			if format == ui.FormatJSON {
				stepOut = cmd.ErrOrStderr()
			}

			opts := core.InstallOptions{
				PlanOptions: core.PlanOptions{
					ManifestPath:    args[0],
					EnvironmentPath: envFile,
				},
				Executor: executor.Options{
					Runner:          runner,
					CommandTimeout:  a.cfg.Execution.CommandTimeout,
					DownloadTimeout: a.cfg.Execution.DownloadTimeout,
					UserAgent:       a.cfg.Execution.UserAgent,
					Stdout:          stepOut,
					Stderr:          cmd.ErrOrStderr(),
					Observer:        ui.NewStepProgress(cmd.ErrOrStderr(), format),
				},
				DryRun: dryRun,
			}

			if !dryRun {
				store, err := history.Open(a.cfg, a.paths)
				if err != nil {
					// The install itself can proceed; the outcome just won't be recorded
					logger.Warn().Err(err).Msg("History store unavailable")
				} else {
					defer func() {
						if err := store.Close(); err != nil {
							logger.Warn().Err(err).Msg("Failed to close history store")
						}
					}()
					opts.History = store
				}
			}

			logger.Info().
				Str("manifest", args[0]).
				Str("shell", shellName).
				Bool("dryRun", dryRun).
				Msg("Installing")

			res, err := core.Install(cmd.Context(), opts)
			if res == nil {
				if err == nil {
					return nil
				}
				if renderErr := r.Error(err); renderErr != nil {
					return err
				}
				return reported(err)
			}

			if renderErr := r.Install(res); renderErr != nil {
				return renderErr
			}
			if err != nil {
				if format != ui.FormatJSON {
					_ = r.Error(err)
				}
				return reported(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env", "", "Plan against an environment snapshot instead of probing (requires --dry-run)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only; execute nothing and record nothing")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print compact JSON")
	cmd.Flags().StringVar(&shellName, "shell", "", "Shell for run steps: native or virtual (default from config)")
	return cmd
}
