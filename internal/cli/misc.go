package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/enzyme/internal/version"
	"github.com/arthur-debert/enzyme/pkg/config"
	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newGenconfigCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenconfigShort,
		Long: `Genconfig prints the default configuration with every value commented out.
With --write the template is saved to the user config file instead, which
must not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateDefault()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := a.configFile
			if target == "" {
				target = a.paths.ConfigFilePath()
			}
			return writeConfigTemplate(cmd, filesystem.NewOS(), target, content)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the template to the config file location")
	return cmd
}

func writeConfigTemplate(cmd *cobra.Command, fs afero.Fs, target, content string) error {
	exists, err := afero.Exists(fs, target)
	if err != nil {
		return err
	}
	if exists {
		return errors.Newf(errors.ErrInvalidInput, MsgConfigExists, target).
			WithDetail("path", target)
	}
	if err := filesystem.WriteFileAtomic(fs, target, []byte(content), 0644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", target)
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "man <dir>",
		Short: MsgManShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
			}
			header := &doc.GenManHeader{
				Title:   "ENZYME",
				Section: "1",
				Source:  "enzyme " + version.Version,
				Manual:  "enzyme manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten+"\n", dir)
			return err
		},
	}
}
