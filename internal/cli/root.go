// Package cli builds the enzyme command tree.
package cli

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/arthur-debert/enzyme/internal/version"
	"github.com/arthur-debert/enzyme/pkg/config"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/arthur-debert/enzyme/pkg/ui"
	"github.com/charmbracelet/fang"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries what every command needs once flags are parsed
type app struct {
	verbosity  int
	configFile string
	output     string

	cfg   *config.Config
	paths paths.Paths
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "enzyme",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/enzyme/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "auto", "Output format: auto, text or json")

	rootCmd.AddCommand(newDetectCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newGenconfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newManCmd())

	installTopics(rootCmd)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	logging.SetupLogger(a.verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	p, err := paths.New()
	if err != nil {
		return err
	}
	a.paths = p

	cfg, err := config.Load(config.LoadOptions{Paths: p, ConfigFile: a.configFile})
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Logging.Verbosity > a.verbosity {
		logging.SetupLogger(cfg.Logging.Verbosity)
	}
	return nil
}

// format resolves --output (or --raw) against the command's stdout
func (a *app) format(cmd *cobra.Command, raw bool) (ui.Format, error) {
	if raw {
		return ui.FormatJSON, nil
	}
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return format, err
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return format.Resolve(f), nil
	}
	if format == ui.FormatAuto {
		return ui.FormatText, nil
	}
	return format, nil
}

func (a *app) renderer(cmd *cobra.Command, raw bool) (ui.Renderer, ui.Format, error) {
	format, err := a.format(cmd, raw)
	if err != nil {
		return nil, format, err
	}
	r, err := ui.NewRenderer(format, cmd.OutOrStdout(), ui.Options{Raw: raw})
	return r, format, err
}

// reportedError marks an error the renderer already showed the user. It
// still carries the cause so the exit code can be derived from it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// ErrorHandler prints errors that no command rendered itself
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	var r *reportedError
	if stderrors.As(err, &r) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
