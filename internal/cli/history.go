package cli

import (
	"fmt"

	"github.com/arthur-debert/enzyme/pkg/history"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/arthur-debert/enzyme/pkg/ui"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		follow bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: MsgHistoryShort,
		Long: `History lists recorded installs, oldest first. With --follow it keeps
running and prints installs recorded by other enzyme processes as they
happen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.history")

			r, format, err := a.renderer(cmd, raw)
			if err != nil {
				return err
			}

			store, err := history.Open(a.cfg, a.paths)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn().Err(err).Msg("Failed to close history store")
				}
			}()

			state, err := store.Load()
			if err != nil {
				return err
			}
			if err := r.History(lastN(state.Installs, limit)); err != nil {
				return err
			}
			if !follow {
				return nil
			}

			path := a.cfg.HistoryPath(a.paths)
			if format != ui.FormatJSON {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), MsgFollowing+"\n", path)
			}
			return history.Follow(cmd.Context(), store, path, func(recs []types.InstallRecord) {
				if err := r.History(recs); err != nil {
					logger.Warn().Err(err).Msg("Failed to render history")
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N installs (0 shows all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep watching for new installs")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print compact JSON")
	return cmd
}

// lastN returns the final n records, or all of them when n <= 0
func lastN(records []types.InstallRecord, n int) []types.InstallRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[len(records)-n:]
}
